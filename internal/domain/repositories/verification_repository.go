package repositories

import (
	"context"

	"dropmarket.backend/internal/domain/entities"
)

// VerificationRepository defines verification data operations. Status
// changes touch the verification row and the owning user row in the same
// call so the two statuses never diverge.
type VerificationRepository interface {
	// Submit upserts the application (keyed by user id, resubmission
	// overwrites) and moves the user to pending with the profile fields
	// copied over, atomically.
	Submit(ctx context.Context, v *entities.Verification) error
	GetByUserID(ctx context.Context, userID int64) (*entities.Verification, error)
	ListPending(ctx context.Context, limit int) ([]*entities.Verification, error)
	// Decide flips a pending application to verified or rejected together
	// with the user status. Returns ErrNotPending when no pending
	// application exists for the user.
	Decide(ctx context.Context, userID int64, status entities.VerificationStatus) error
}
