package usecases

import (
	"context"
	"strings"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
	"dropmarket.backend/internal/domain/repositories"
	"dropmarket.backend/pkg/logger"
	"dropmarket.backend/pkg/metrics"
	"dropmarket.backend/pkg/utils"
)

// VerificationUsecase handles the agent vetting state machine: application
// submission by users and adjudication by the administrator.
type VerificationUsecase struct {
	users         repositories.UserRepository
	verifications repositories.VerificationRepository
	notifier      *Notifier
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	users repositories.UserRepository,
	verifications repositories.VerificationRepository,
	notifier *Notifier,
) *VerificationUsecase {
	return &VerificationUsecase{
		users:         users,
		verifications: verifications,
		notifier:      notifier,
	}
}

// Submit validates and records a verification application for the user and
// moves them to pending. Users already pending or verified are refused;
// rejected users overwrite their previous application.
func (uc *VerificationUsecase) Submit(ctx context.Context, userID int64, input entities.SubmitVerificationInput) (*entities.Verification, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Activity) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.Age < entities.MinimumAge {
		return nil, domainerrors.ErrInvalidInput
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanApply() {
		return nil, domainerrors.ErrAlreadyApplied
	}

	v := &entities.Verification{
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		Age:           input.Age,
		Activity:      strings.TrimSpace(input.Activity),
		DocumentPhoto: null.NewString(input.DocumentPhoto, input.DocumentPhoto != ""),
		Status:        entities.VerificationStatusPending,
	}
	if err := uc.verifications.Submit(ctx, v); err != nil {
		return nil, err
	}

	metrics.VerificationsSubmitted.Inc()
	logger.Info(ctx, "verification submitted", zap.Int64("user_id", userID))

	uc.notifier.VerificationSubmitted(ctx, user, v)
	return v, nil
}

// Approve adjudicates a pending application as verified.
func (uc *VerificationUsecase) Approve(ctx context.Context, userID int64) error {
	return uc.decide(ctx, userID, entities.VerificationStatusVerified)
}

// Reject adjudicates a pending application as rejected. The user may apply
// again afterwards.
func (uc *VerificationUsecase) Reject(ctx context.Context, userID int64) error {
	return uc.decide(ctx, userID, entities.VerificationStatusRejected)
}

func (uc *VerificationUsecase) decide(ctx context.Context, userID int64, status entities.VerificationStatus) error {
	if err := uc.verifications.Decide(ctx, userID, status); err != nil {
		return err
	}

	approved := status == entities.VerificationStatusVerified
	metrics.VerificationDecisions.WithLabelValues(string(status)).Inc()
	logger.Info(ctx, "verification decided",
		zap.Int64("user_id", userID),
		zap.String("decision", string(status)),
	)

	uc.notifier.VerificationDecided(ctx, userID, approved)
	return nil
}

// GetByUserID returns the user's application.
func (uc *VerificationUsecase) GetByUserID(ctx context.Context, userID int64) (*entities.Verification, error) {
	return uc.verifications.GetByUserID(ctx, userID)
}

// ListPending returns applications awaiting adjudication.
func (uc *VerificationUsecase) ListPending(ctx context.Context, limit int) ([]*entities.Verification, error) {
	return uc.verifications.ListPending(ctx, utils.ClampLimit(limit))
}
