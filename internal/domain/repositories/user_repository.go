package repositories

import (
	"context"

	"dropmarket.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	// Upsert creates the user as a guest on first contact or refreshes the
	// username if it changed, and returns the current record.
	Upsert(ctx context.Context, id int64, username string) (*entities.User, error)
	GetByID(ctx context.Context, id int64) (*entities.User, error)
	ListVerified(ctx context.Context) ([]*entities.User, error)
}
