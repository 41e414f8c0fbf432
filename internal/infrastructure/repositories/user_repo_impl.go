package repositories

import (
	"context"
	"errors"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
	"dropmarket.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates the user as a guest on first contact, or refreshes the
// username when it changed, and returns the current record.
func (r *UserRepository) Upsert(ctx context.Context, id int64, username string) (*entities.User, error) {
	m := &models.User{
		UserID:   id,
		Username: null.NewString(username, username != ""),
		Status:   string(entities.UserStatusGuest),
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}
	if username != "" {
		onConflict.DoNothing = false
		onConflict.DoUpdates = clause.Assignments(map[string]interface{}{"username": username})
	}

	if err := r.db.WithContext(ctx).Clauses(onConflict).Create(m).Error; err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

// ListVerified lists all verified agents, newest first
func (r *UserRepository) ListVerified(ctx context.Context) ([]*entities.User, error) {
	var userModels []models.User
	err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.UserStatusVerified)).
		Order("user_id DESC").
		Find(&userModels).Error
	if err != nil {
		return nil, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, toUserEntity(&userModels[i]))
	}
	return users, nil
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:            m.UserID,
		Username:      m.Username,
		Status:        entities.UserStatus(m.Status),
		Name:          m.Name,
		Age:           m.Age,
		DocumentPhoto: m.DocumentPhoto,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
