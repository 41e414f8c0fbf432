package entities

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
)

// OrderStatus represents the order lifecycle status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusTaken     OrderStatus = "taken"
	OrderStatusCompleted OrderStatus = "completed"
)

// Order represents a client order. DropID is set exactly when the order is
// taken or completed and cleared again when an administrator restores the
// order to the pool; status and assignment always move together.
type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"userId"`
	Item      string      `json:"item"`
	Price     float64     `json:"price"`
	Address   string      `json:"address,omitempty"`
	Status    OrderStatus `json:"status"`
	DropID    null.Int64  `json:"dropId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CreateOrderInput represents input for creating an order
type CreateOrderInput struct {
	Item    string  `json:"item" binding:"required"`
	Price   float64 `json:"price" binding:"required"`
	Address string  `json:"address,omitempty"`
}

// Summary renders the canonical one-order description used in every
// listing and notification.
func (o *Order) Summary() string {
	return fmt.Sprintf("Order #%d\nItem: %s\nBudget: $%.2f", o.ID, o.Item, o.Price)
}

// StatusLabel returns the human-readable status name.
func (o *Order) StatusLabel() string {
	switch o.Status {
	case OrderStatusPending:
		return "Waiting"
	case OrderStatusTaken:
		return "In progress"
	case OrderStatusCompleted:
		return "Completed"
	default:
		return string(o.Status)
	}
}
