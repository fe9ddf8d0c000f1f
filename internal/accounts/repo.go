package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/b2b-portal/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes portal account persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an accounts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail retrieves the account matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.PortalAccount, error) {
	var account models.PortalAccount
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Create inserts a new account.
func (r *Repository) Create(ctx context.Context, account *models.PortalAccount) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.Email = normalizeEmail(account.Email)
	return r.db.WithContext(ctx).Create(account).Error
}

// UpdateCredentials replaces the password hash and active flag.
func (r *Repository) UpdateCredentials(ctx context.Context, id uuid.UUID, passwordHash string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.PortalAccount{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"is_active":     active,
			"updated_at":    time.Now().UTC(),
		}).Error
}

// UpdateLastLogin refreshes the account's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.PortalAccount{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
