package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
	"dropmarket.backend/internal/interfaces/http/response"
)

type OrderService interface {
	GetByID(ctx context.Context, orderID int64) (*entities.Order, error)
	ListPending(ctx context.Context, limit int) ([]*entities.Order, error)
	ListActive(ctx context.Context, limit int) ([]*entities.Order, error)
	ListCompleted(ctx context.Context, limit int) ([]*entities.Order, error)
	CompleteByAdmin(ctx context.Context, orderID int64) (*entities.Order, error)
	Restore(ctx context.Context, orderID int64) (*entities.Order, error)
}

// OrderHandler handles order endpoints for the operator API
type OrderHandler struct {
	orderUsecase OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderUsecase OrderService) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase}
}

// ListOrders lists orders filtered by lifecycle status
// GET /api/v1/orders?status=pending|active|completed
func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var (
		orders []*entities.Order
		err    error
	)
	switch c.DefaultQuery("status", "pending") {
	case "pending":
		orders, err = h.orderUsecase.ListPending(c.Request.Context(), limit)
	case "active":
		orders, err = h.orderUsecase.ListActive(c.Request.Context(), limit)
	case "completed":
		orders, err = h.orderUsecase.ListCompleted(c.Request.Context(), limit)
	default:
		response.Error(c, domainerrors.BadRequest("status must be pending, active or completed"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"orders": orders})
}

// GetOrder gets an order by ID
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid order ID"))
		return
	}

	order, err := h.orderUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Order not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": order})
}

// CompleteOrder force-completes a pending or taken order
// POST /api/v1/orders/:id/complete
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid order ID"))
		return
	}

	order, err := h.orderUsecase.CompleteByAdmin(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrNotFound):
			response.Error(c, domainerrors.NotFound("Order not found"))
		case errors.Is(err, domainerrors.ErrOrderUnavailable):
			response.Error(c, domainerrors.Conflict("Order is already completed", err))
		default:
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": order})
}

// RestoreOrder reopens a taken or completed order
// POST /api/v1/orders/:id/restore
func (h *OrderHandler) RestoreOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid order ID"))
		return
	}

	order, err := h.orderUsecase.Restore(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Order not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": order})
}
