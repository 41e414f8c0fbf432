package repositories

import (
	"context"

	"dropmarket.backend/internal/domain/entities"
)

// OrderRepository defines order data operations. The transition methods are
// conditioned writes: they mutate the row only when the current status still
// permits the transition, and report ErrOrderUnavailable when another writer
// got there first.
type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	GetByID(ctx context.Context, id int64) (*entities.Order, error)
	ListByStatus(ctx context.Context, status entities.OrderStatus, limit int) ([]*entities.Order, error)
	ListByClient(ctx context.Context, userID int64, limit int) ([]*entities.Order, error)
	ListActiveByDrop(ctx context.Context, dropID int64) ([]*entities.Order, error)
	CountActiveByDrop(ctx context.Context, dropID int64) (int64, error)
	CountByStatus(ctx context.Context, status entities.OrderStatus) (int64, error)
	// Take assigns a pending order to the agent (pending → taken).
	Take(ctx context.Context, orderID, dropID int64) error
	// CompleteByDrop completes an order currently taken by this agent.
	CompleteByDrop(ctx context.Context, orderID, dropID int64) error
	// Complete force-completes a pending or taken order (admin override).
	Complete(ctx context.Context, orderID int64) error
	// Restore reopens a non-pending order: status back to pending, drop
	// assignment cleared, in one write.
	Restore(ctx context.Context, orderID int64) error
}
