package usecases

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
	"dropmarket.backend/internal/domain/repositories"
	"dropmarket.backend/pkg/logger"
	"dropmarket.backend/pkg/metrics"
	"dropmarket.backend/pkg/utils"
)

// OrderUsecase handles the order lifecycle: creation by clients, taking and
// completion by agents, and administrator overrides.
type OrderUsecase struct {
	orders   repositories.OrderRepository
	users    repositories.UserRepository
	takeLock TakeLock
	notifier *Notifier
}

// NewOrderUsecase creates a new order usecase
func NewOrderUsecase(
	orders repositories.OrderRepository,
	users repositories.UserRepository,
	takeLock TakeLock,
	notifier *Notifier,
) *OrderUsecase {
	return &OrderUsecase{
		orders:   orders,
		users:    users,
		takeLock: takeLock,
		notifier: notifier,
	}
}

// Create validates and records a new pending order for the client.
func (uc *OrderUsecase) Create(ctx context.Context, userID int64, input entities.CreateOrderInput) (*entities.Order, error) {
	if strings.TrimSpace(input.Item) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.Price <= 0 {
		return nil, domainerrors.ErrInvalidInput
	}

	order := &entities.Order{
		UserID:  userID,
		Item:    strings.TrimSpace(input.Item),
		Price:   input.Price,
		Address: strings.TrimSpace(input.Address),
		Status:  entities.OrderStatusPending,
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	logger.Info(ctx, "order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
	)

	uc.notifier.OrderCreated(ctx, order)
	return order, nil
}

// Take assigns a pending order to a verified agent. An agent may hold at
// most one active order; the per-agent lock serializes the check against
// concurrent takes by the same agent, while the conditioned write settles
// races between different agents on the same order.
func (uc *OrderUsecase) Take(ctx context.Context, orderID, dropID int64) (*entities.Order, error) {
	agent, err := uc.users.GetByID(ctx, dropID)
	if err != nil {
		return nil, err
	}
	if !agent.IsVerified() {
		return nil, domainerrors.ErrNotVerified
	}

	release, ok := uc.takeLock.TryLock(ctx, dropID)
	if !ok {
		return nil, domainerrors.ErrActiveOrderExists
	}
	defer release()

	active, err := uc.orders.CountActiveByDrop(ctx, dropID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, domainerrors.ErrActiveOrderExists
	}

	if _, err := uc.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	if err := uc.orders.Take(ctx, orderID, dropID); err != nil {
		return nil, err
	}

	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues("take").Inc()
	logger.Info(ctx, "order taken",
		zap.Int64("order_id", orderID),
		zap.Int64("drop_id", dropID),
	)

	uc.notifier.OrderTaken(ctx, order)
	return order, nil
}

// CompleteByDrop completes an order on behalf of its assigned agent. Agents
// may only complete orders they themselves hold.
func (uc *OrderUsecase) CompleteByDrop(ctx context.Context, orderID, dropID int64) (*entities.Order, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == entities.OrderStatusTaken && (!order.DropID.Valid || order.DropID.Int64 != dropID) {
		return nil, domainerrors.ErrNotAssigned
	}

	if err := uc.orders.CompleteByDrop(ctx, orderID, dropID); err != nil {
		return nil, err
	}
	return uc.finishComplete(ctx, orderID, false)
}

// CompleteByAdmin force-completes a pending or taken order.
func (uc *OrderUsecase) CompleteByAdmin(ctx context.Context, orderID int64) (*entities.Order, error) {
	if _, err := uc.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	if err := uc.orders.Complete(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.finishComplete(ctx, orderID, true)
}

func (uc *OrderUsecase) finishComplete(ctx context.Context, orderID int64, byAdmin bool) (*entities.Order, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues("complete").Inc()
	logger.Info(ctx, "order completed",
		zap.Int64("order_id", orderID),
		zap.Bool("by_admin", byAdmin),
	)

	uc.notifier.OrderCompleted(ctx, order, byAdmin)
	return order, nil
}

// Restore reopens a taken or completed order: back to pending with the
// assignment cleared. Restoring an order that is already pending is a no-op
// returning the current record.
func (uc *OrderUsecase) Restore(ctx context.Context, orderID int64) (*entities.Order, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := uc.orders.Restore(ctx, orderID); err != nil {
		if errors.Is(err, domainerrors.ErrOrderUnavailable) && order.Status == entities.OrderStatusPending {
			return order, nil
		}
		return nil, err
	}

	restored, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues("restore").Inc()
	logger.Info(ctx, "order restored", zap.Int64("order_id", orderID))

	uc.notifier.OrderRestored(ctx, restored)
	return restored, nil
}

// GetByID returns one order.
func (uc *OrderUsecase) GetByID(ctx context.Context, orderID int64) (*entities.Order, error) {
	return uc.orders.GetByID(ctx, orderID)
}

// ListPending returns open orders an agent may take.
func (uc *OrderUsecase) ListPending(ctx context.Context, limit int) ([]*entities.Order, error) {
	return uc.orders.ListByStatus(ctx, entities.OrderStatusPending, utils.ClampLimit(limit))
}

// ListPendingForDrop returns open orders for an agent to browse. Only
// verified agents may browse, and an agent holding an active order must
// finish it first.
func (uc *OrderUsecase) ListPendingForDrop(ctx context.Context, dropID int64, limit int) ([]*entities.Order, error) {
	agent, err := uc.users.GetByID(ctx, dropID)
	if err != nil {
		return nil, err
	}
	if !agent.IsVerified() {
		return nil, domainerrors.ErrNotVerified
	}

	active, err := uc.orders.CountActiveByDrop(ctx, dropID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, domainerrors.ErrActiveOrderExists
	}

	return uc.ListPending(ctx, limit)
}

// ListActive returns orders currently in progress.
func (uc *OrderUsecase) ListActive(ctx context.Context, limit int) ([]*entities.Order, error) {
	return uc.orders.ListByStatus(ctx, entities.OrderStatusTaken, utils.ClampLimit(limit))
}

// ListCompleted returns finished orders.
func (uc *OrderUsecase) ListCompleted(ctx context.Context, limit int) ([]*entities.Order, error) {
	return uc.orders.ListByStatus(ctx, entities.OrderStatusCompleted, utils.ClampLimit(limit))
}

// ListByClient returns the client's own orders, newest first.
func (uc *OrderUsecase) ListByClient(ctx context.Context, userID int64, limit int) ([]*entities.Order, error) {
	return uc.orders.ListByClient(ctx, userID, utils.ClampLimit(limit))
}

// ActiveOrderForDrop returns the order the agent currently holds, or
// ErrNotFound when none.
func (uc *OrderUsecase) ActiveOrderForDrop(ctx context.Context, dropID int64) (*entities.Order, error) {
	orders, err := uc.orders.ListActiveByDrop(ctx, dropID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return orders[0], nil
}

// CountByStatus returns the number of orders with the given status.
func (uc *OrderUsecase) CountByStatus(ctx context.Context, status entities.OrderStatus) (int64, error) {
	return uc.orders.CountByStatus(ctx, status)
}
