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

type VerificationService interface {
	GetByUserID(ctx context.Context, userID int64) (*entities.Verification, error)
	ListPending(ctx context.Context, limit int) ([]*entities.Verification, error)
	Approve(ctx context.Context, userID int64) error
	Reject(ctx context.Context, userID int64) error
}

// VerificationHandler handles verification endpoints for the operator API
type VerificationHandler struct {
	verificationUsecase VerificationService
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verificationUsecase VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationUsecase: verificationUsecase}
}

// ListPending lists applications awaiting adjudication
// GET /api/v1/verifications
func (h *VerificationHandler) ListPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	verifications, err := h.verificationUsecase.ListPending(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"verifications": verifications})
}

// GetVerification gets the application of one user
// GET /api/v1/verifications/:userId
func (h *VerificationHandler) GetVerification(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	v, err := h.verificationUsecase.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Verification not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"verification": v})
}

// ApproveVerification approves a pending application
// POST /api/v1/verifications/:userId/approve
func (h *VerificationHandler) ApproveVerification(c *gin.Context) {
	h.decide(c, h.verificationUsecase.Approve)
}

// RejectVerification rejects a pending application
// POST /api/v1/verifications/:userId/reject
func (h *VerificationHandler) RejectVerification(c *gin.Context) {
	h.decide(c, h.verificationUsecase.Reject)
}

func (h *VerificationHandler) decide(c *gin.Context, decide func(context.Context, int64) error) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	if err := decide(c.Request.Context(), userID); err != nil {
		if errors.Is(err, domainerrors.ErrNotPending) {
			response.Error(c, domainerrors.Conflict("Verification is not pending", err))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}
