package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// VerificationStatus represents the adjudication status of an application.
// It is kept in sync with the owning user's status at all times.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusVerified VerificationStatus = "verified"
	VerificationStatusRejected VerificationStatus = "rejected"
)

// Verification is the vetting application for becoming an agent. At most one
// record exists per user; resubmission overwrites the previous one.
type Verification struct {
	UserID        int64              `json:"userId"`
	Name          string             `json:"name"`
	Age           int                `json:"age"`
	DocumentPhoto null.String        `json:"documentPhoto,omitempty"`
	Activity      string             `json:"activity"`
	Status        VerificationStatus `json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// SubmitVerificationInput represents input for submitting an application
type SubmitVerificationInput struct {
	Name          string `json:"name" binding:"required"`
	Age           int    `json:"age" binding:"required"`
	Activity      string `json:"activity" binding:"required"`
	DocumentPhoto string `json:"documentPhoto,omitempty"`
}

// MinimumAge is the lowest age accepted on a verification application.
const MinimumAge = 14
