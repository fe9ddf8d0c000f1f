package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"gorm.io/gorm"

	"github.com/angelmondragon/b2b-portal/pkg/config"
	"github.com/angelmondragon/b2b-portal/pkg/db/models"
	"github.com/angelmondragon/b2b-portal/pkg/security"
)

// ProvisionInput describes the account an operator wants to create or reset.
type ProvisionInput struct {
	Email    string
	Password string
	Disabled bool
}

// ProvisionResult reports what Provision did.
type ProvisionResult struct {
	Account *models.PortalAccount
	Created bool
}

// Provision creates the account or resets its password when it already exists.
func Provision(ctx context.Context, repo *Repository, cfg config.PasswordConfig, in ProvisionInput) (*ProvisionResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email %q: %w", in.Email, err)
	}
	hash, err := security.HashPassword(in.Password, cfg)
	if err != nil {
		return nil, err
	}

	existing, err := repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		account := &models.PortalAccount{Email: email, PasswordHash: hash, IsActive: !in.Disabled}
		if err := repo.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
		return &ProvisionResult{Account: account, Created: true}, nil
	case err != nil:
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if err := repo.UpdateCredentials(ctx, existing.ID, hash, !in.Disabled); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	existing.PasswordHash = hash
	existing.IsActive = !in.Disabled
	return &ProvisionResult{Account: existing}, nil
}
