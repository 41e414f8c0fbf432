package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
	"dropmarket.backend/internal/infrastructure/models"
)

// VerificationRepository implements verification data operations
type VerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Submit upserts the application and moves the owning user to pending in a
// single transaction, copying the profile fields onto the user row.
// Verification.status and User.status are never written independently.
func (r *VerificationRepository) Submit(ctx context.Context, v *entities.Verification) error {
	m := &models.Verification{
		UserID:        v.UserID,
		Name:          v.Name,
		Age:           v.Age,
		DocumentPhoto: v.DocumentPhoto,
		Activity:      v.Activity,
		Status:        string(entities.VerificationStatusPending),
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"name":           m.Name,
				"age":            m.Age,
				"document_photo": m.DocumentPhoto,
				"activity":       m.Activity,
				"status":         m.Status,
				"updated_at":     time.Now(),
			}),
		}).Create(m).Error
		if err != nil {
			return err
		}

		result := tx.Model(&models.User{}).
			Where("user_id = ?", v.UserID).
			Updates(map[string]interface{}{
				"status":         string(entities.UserStatusPending),
				"name":           m.Name,
				"age":            m.Age,
				"document_photo": m.DocumentPhoto,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}
		return nil
	})
}

// GetByUserID gets a verification by the owning user ID
func (r *VerificationRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Verification, error) {
	var m models.Verification
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toVerificationEntity(&m), nil
}

// ListPending lists pending applications, newest first
func (r *VerificationRepository) ListPending(ctx context.Context, limit int) ([]*entities.Verification, error) {
	var verifModels []models.Verification
	err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.VerificationStatusPending)).
		Order("user_id DESC").
		Limit(limit).
		Find(&verifModels).Error
	if err != nil {
		return nil, err
	}

	verifs := make([]*entities.Verification, 0, len(verifModels))
	for i := range verifModels {
		verifs = append(verifs, toVerificationEntity(&verifModels[i]))
	}
	return verifs, nil
}

// Decide flips a pending application and the owning user to the given
// decision in one transaction. The verification write is conditioned on the
// application still being pending.
func (r *VerificationRepository) Decide(ctx context.Context, userID int64, status entities.VerificationStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Verification{}).
			Where("user_id = ? AND status = ?", userID, string(entities.VerificationStatusPending)).
			Updates(map[string]interface{}{"status": string(status), "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotPending
		}

		return tx.Model(&models.User{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{"status": string(status), "updated_at": time.Now()}).Error
	})
}

func toVerificationEntity(m *models.Verification) *entities.Verification {
	return &entities.Verification{
		UserID:        m.UserID,
		Name:          m.Name,
		Age:           m.Age,
		DocumentPhoto: m.DocumentPhoto,
		Activity:      m.Activity,
		Status:        entities.VerificationStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
