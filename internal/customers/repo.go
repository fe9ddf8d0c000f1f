package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/b2b-portal/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository persists business profiles keyed by customer email.
type ProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.BusinessProfile, error)
	Upsert(ctx context.Context, email string, profile BusinessProfile) (*models.BusinessProfile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository builds a profile repository bound to the provided DB.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByEmail returns gorm.ErrRecordNotFound when no profile exists.
func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, email string, profile BusinessProfile) (*models.BusinessProfile, error) {
	email = normalizeEmail(email)
	var stored *models.BusinessProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.BusinessProfile
		err := tx.Where("email = ?", email).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = models.BusinessProfile{ID: uuid.New(), Email: email}
			profile.applyTo(&existing)
			if err := tx.Create(&existing).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			profile.applyTo(&existing)
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}
		stored = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
