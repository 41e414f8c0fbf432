package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
	"dropmarket.backend/internal/infrastructure/models"
)

// OrderRepository implements order data operations. Transition methods use
// conditioned single-row writes so that concurrent callers racing for the
// same order resolve to exactly one winner.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create creates a new order in pending status and backfills the assigned id
func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	m := &models.Order{
		UserID:  order.UserID,
		Item:    order.Item,
		Price:   order.Price,
		Address: order.Address,
		Status:  string(entities.OrderStatusPending),
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	order.ID = m.OrderID
	order.Status = entities.OrderStatusPending
	order.CreatedAt = m.CreatedAt
	order.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*entities.Order, error) {
	var m models.Order
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toOrderEntity(&m), nil
}

// ListByStatus lists orders in the given status, newest first, capped
func (r *OrderRepository) ListByStatus(ctx context.Context, status entities.OrderStatus, limit int) ([]*entities.Order, error) {
	var orderModels []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("order_id DESC").
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}
	return toOrderEntities(orderModels), nil
}

// ListByClient lists orders created by the given client, newest first, capped
func (r *OrderRepository) ListByClient(ctx context.Context, userID int64, limit int) ([]*entities.Order, error) {
	var orderModels []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_id DESC").
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}
	return toOrderEntities(orderModels), nil
}

// ListActiveByDrop lists orders currently taken by the given agent
func (r *OrderRepository) ListActiveByDrop(ctx context.Context, dropID int64) ([]*entities.Order, error) {
	var orderModels []models.Order
	err := r.db.WithContext(ctx).
		Where("drop_id = ? AND status = ?", dropID, string(entities.OrderStatusTaken)).
		Order("order_id DESC").
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}
	return toOrderEntities(orderModels), nil
}

// CountActiveByDrop counts orders currently taken by the given agent
func (r *OrderRepository) CountActiveByDrop(ctx context.Context, dropID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("drop_id = ? AND status = ?", dropID, string(entities.OrderStatusTaken)).
		Count(&count).Error
	return count, err
}

// CountByStatus counts orders in the given status
func (r *OrderRepository) CountByStatus(ctx context.Context, status entities.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	return count, err
}

// Take assigns a pending order to the agent. The write is conditioned on
// the order still being pending, so of two concurrent takers exactly one
// succeeds and the other observes ErrOrderUnavailable.
func (r *OrderRepository) Take(ctx context.Context, orderID, dropID int64) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, string(entities.OrderStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entities.OrderStatusTaken),
			"drop_id":    dropID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOrderUnavailable
	}
	return nil
}

// CompleteByDrop completes an order currently taken by this agent
func (r *OrderRepository) CompleteByDrop(ctx context.Context, orderID, dropID int64) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_id = ? AND status = ? AND drop_id = ?", orderID, string(entities.OrderStatusTaken), dropID).
		Updates(map[string]interface{}{
			"status":     string(entities.OrderStatusCompleted),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOrderUnavailable
	}
	return nil
}

// Complete force-completes a pending or taken order (admin override)
func (r *OrderRepository) Complete(ctx context.Context, orderID int64) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_id = ? AND status IN ?", orderID,
			[]string{string(entities.OrderStatusPending), string(entities.OrderStatusTaken)}).
		Updates(map[string]interface{}{
			"status":     string(entities.OrderStatusCompleted),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOrderUnavailable
	}
	return nil
}

// Restore reopens a non-pending order: status and assignment move back
// together in one write so no orphaned drop_id can be observed.
func (r *OrderRepository) Restore(ctx context.Context, orderID int64) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_id = ? AND status <> ?", orderID, string(entities.OrderStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entities.OrderStatusPending),
			"drop_id":    nil,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOrderUnavailable
	}
	return nil
}

func toOrderEntity(m *models.Order) *entities.Order {
	return &entities.Order{
		ID:        m.OrderID,
		UserID:    m.UserID,
		Item:      m.Item,
		Price:     m.Price,
		Address:   m.Address,
		Status:    entities.OrderStatus(m.Status),
		DropID:    null.NewInt64(m.DropID.Int64, m.DropID.Valid),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toOrderEntities(orderModels []models.Order) []*entities.Order {
	orders := make([]*entities.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, toOrderEntity(&orderModels[i]))
	}
	return orders
}
