package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Order struct {
	OrderID   int64   `gorm:"column:order_id;primaryKey;autoIncrement"`
	UserID    int64   `gorm:"not null;index"`
	Item      string  `gorm:"type:varchar(255);not null"`
	Price     float64 `gorm:"not null"`
	Address   string  `gorm:"type:varchar(255);not null;default:''"`
	Status    string  `gorm:"type:varchar(50);not null;default:'pending';index"`
	DropID    null.Int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Order) TableName() string {
	return "orders"
}
