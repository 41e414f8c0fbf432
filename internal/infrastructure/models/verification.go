package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Verification struct {
	UserID        int64       `gorm:"column:user_id;primaryKey"`
	Name          string      `gorm:"type:varchar(255);not null"`
	Age           int         `gorm:"not null"`
	DocumentPhoto null.String `gorm:"type:varchar(255)"`
	Activity      string      `gorm:"type:varchar(255);not null"`
	Status        string      `gorm:"type:varchar(50);not null;default:'pending';index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Verification) TableName() string {
	return "verifications"
}
