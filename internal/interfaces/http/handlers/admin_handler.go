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

type UserService interface {
	GetByID(ctx context.Context, id int64) (*entities.User, error)
}

type Broadcaster interface {
	Broadcast(ctx context.Context, text string) (int, error)
}

type OrderCounter interface {
	CountByStatus(ctx context.Context, status entities.OrderStatus) (int64, error)
}

// AdminHandler handles operator endpoints not tied to one entity
type AdminHandler struct {
	userUsecase UserService
	broadcaster Broadcaster
	counter     OrderCounter
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userUsecase UserService, broadcaster Broadcaster, counter OrderCounter) *AdminHandler {
	return &AdminHandler{
		userUsecase: userUsecase,
		broadcaster: broadcaster,
		counter:     counter,
	}
}

// GetUser gets a user by ID
// GET /api/v1/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	user, err := h.userUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

type broadcastRequest struct {
	Message string `json:"message" binding:"required"`
}

// Broadcast sends a message to every verified agent
// POST /api/v1/broadcast
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("message is required"))
		return
	}

	sent, err := h.broadcaster.Broadcast(c.Request.Context(), req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sent": sent})
}

// GetStats reports order counts per lifecycle status
// GET /api/v1/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	stats := gin.H{}
	for _, status := range []entities.OrderStatus{
		entities.OrderStatusPending,
		entities.OrderStatusTaken,
		entities.OrderStatusCompleted,
	} {
		count, err := h.counter.CountByStatus(ctx, status)
		if err != nil {
			response.Error(c, err)
			return
		}
		stats[string(status)] = count
	}

	response.Success(c, http.StatusOK, gin.H{"orders": stats})
}
