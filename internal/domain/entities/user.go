package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// UserStatus represents the user lifecycle status
type UserStatus string

const (
	UserStatusGuest    UserStatus = "guest"
	UserStatusPending  UserStatus = "pending"
	UserStatusVerified UserStatus = "verified"
	UserStatusRejected UserStatus = "rejected"
)

// User represents a marketplace participant. Every contact is created as a
// guest; the status advances through the verification state machine.
type User struct {
	ID            int64       `json:"id"`
	Username      null.String `json:"username,omitempty"`
	Status        UserStatus  `json:"status"`
	Name          null.String `json:"name,omitempty"`
	Age           null.Int    `json:"age,omitempty"`
	DocumentPhoto null.String `json:"documentPhoto,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// IsVerified reports whether the user is an approved fulfillment agent.
func (u *User) IsVerified() bool {
	return u.Status == UserStatusVerified
}

// CanApply reports whether the user may submit a verification application.
// Users already pending or verified may not submit again; rejected users may
// resubmit.
func (u *User) CanApply() bool {
	return u.Status == UserStatusGuest || u.Status == UserStatusRejected
}
