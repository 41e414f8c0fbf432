package usecases

import (
	"context"

	"go.uber.org/zap"

	"dropmarket.backend/internal/domain/entities"
	"dropmarket.backend/internal/domain/repositories"
	"dropmarket.backend/pkg/logger"
)

// UserUsecase handles user registration and profile reads.
type UserUsecase struct {
	users repositories.UserRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(users repositories.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

// Register records the contact on first touch and refreshes the username on
// every subsequent one. It is safe to call on every inbound message.
func (uc *UserUsecase) Register(ctx context.Context, id int64, username string) (*entities.User, error) {
	user, err := uc.users.Upsert(ctx, id, username)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "user registered", zap.Int64("user_id", id))
	return user, nil
}

// GetByID returns one user.
func (uc *UserUsecase) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return uc.users.GetByID(ctx, id)
}
