package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type User struct {
	UserID        int64       `gorm:"column:user_id;primaryKey"`
	Username      null.String `gorm:"type:varchar(255)"`
	Status        string      `gorm:"type:varchar(50);not null;default:'guest';index"`
	Name          null.String `gorm:"type:varchar(255)"`
	Age           null.Int
	DocumentPhoto null.String `gorm:"type:varchar(255)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (User) TableName() string {
	return "users"
}
