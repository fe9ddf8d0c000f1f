package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/b2b-portal/internal/customers"
	pkgAuth "github.com/angelmondragon/b2b-portal/pkg/auth"
	"github.com/angelmondragon/b2b-portal/pkg/auth/session"
	"github.com/angelmondragon/b2b-portal/pkg/config"
	"github.com/angelmondragon/b2b-portal/pkg/db/models"
	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
	"github.com/angelmondragon/b2b-portal/pkg/security"
	"github.com/angelmondragon/b2b-portal/pkg/shopify"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	customerDisabledState     = "disabled"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type accountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.PortalAccount, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type customerFinder interface {
	FindCustomerByEmail(ctx context.Context, email string) (*shopify.Customer, error)
}

type sessionManager interface {
	Create(ctx context.Context, accessID string, snapshot session.Snapshot) error
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Accounts  accountRepository
	Customers customerFinder
	Sessions  sessionManager
	JWTConfig config.JWTConfig
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	accounts  accountRepository
	customers customerFinder
	sessions  sessionManager
	jwtCfg    config.JWTConfig
	logg      *logger.Logger
	now       func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer finder is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		accounts:  params.Accounts,
		customers: params.Customers,
		sessions:  params.Sessions,
		jwtCfg:    params.JWTConfig,
		logg:      params.Logger,
		now:       params.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	account, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	remote, err := s.customers.FindCustomerByEmail(ctx, account.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "customer lookup failed")
	}
	if remote == nil || strings.EqualFold(remote.State, customerDisabledState) {
		s.logg.Warn(s.logg.WithField(ctx, "email", account.Email), "auth.login.no_customer")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	customer := &customers.Customer{
		ID:        remote.IDString(),
		Email:     strings.ToLower(strings.TrimSpace(remote.Email)),
		FirstName: remote.FirstName,
		LastName:  remote.LastName,
		Tags:      remote.Tags,
	}

	now := s.now().UTC()
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		CustomerID: customer.ID,
		Email:      customer.Email,
		JTI:        accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.Create(ctx, accessID, customer.Snapshot()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	// last login is informational; a failed write does not block sign-in
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		s.logg.WarnErr(ctx, "auth.login.last_login_failed", err)
	}

	resp := &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(s.jwtCfg.SessionTTL()),
		Customer:    customer,
	}
	if ent, ok := customer.Entitlement(); ok {
		resp.Entitlement = &ent
	}
	s.logg.Info(s.logg.WithCustomerID(ctx, customer.ID), "auth.login.succeeded")
	return resp, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.PortalAccount, error) {
	input := strings.ToLower(strings.TrimSpace(email))
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	account, err := s.accounts.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	valid, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !account.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return account, nil
}
