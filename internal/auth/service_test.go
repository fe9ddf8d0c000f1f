package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	pkgAuth "github.com/angelmondragon/b2b-portal/pkg/auth"
	"github.com/angelmondragon/b2b-portal/pkg/auth/session"
	"github.com/angelmondragon/b2b-portal/pkg/config"
	"github.com/angelmondragon/b2b-portal/pkg/db/models"
	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
	redisclient "github.com/angelmondragon/b2b-portal/pkg/redis"
	"github.com/angelmondragon/b2b-portal/pkg/security"
	"github.com/angelmondragon/b2b-portal/pkg/shopify"
)

type stubAccounts struct {
	account   *models.PortalAccount
	err       error
	lastLogin time.Time
}

func (s *stubAccounts) FindByEmail(ctx context.Context, email string) (*models.PortalAccount, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.account == nil || s.account.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.account, nil
}

func (s *stubAccounts) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = at
	return nil
}

type stubCustomers struct {
	customer *shopify.Customer
	err      error
}

func (s *stubCustomers) FindCustomerByEmail(ctx context.Context, email string) (*shopify.Customer, error) {
	return s.customer, s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "b2b-portal", ExpirationMinutes: 30}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{ArgonMemoryKB: 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildTestService(t *testing.T, accounts *stubAccounts, finder *stubCustomers) (Service, *session.Manager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisclient.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	manager, err := session.NewManager(client, testJWTConfig())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Accounts:  accounts,
		Customers: finder,
		Sessions:  manager,
		JWTConfig: testJWTConfig(),
		Now:       func() time.Time { return time.Now() },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, manager
}

func activeAccount(t *testing.T, password string) *models.PortalAccount {
	return &models.PortalAccount{ID: uuid.New(), Email: "compras@losandes.cl", PasswordHash: mustHashPassword(t, password), IsActive: true}
}

func TestLoginCreatesSessionAndToken(t *testing.T) {
	accounts := &stubAccounts{account: activeAccount(t, "clave-segura-1")}
	finder := &stubCustomers{customer: &shopify.Customer{ID: 7001, Email: "Compras@LosAndes.cl", FirstName: "Ana", Tags: "b2b20, vip"}}
	svc, manager := buildTestService(t, accounts, finder)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " COMPRAS@losandes.cl", Password: "clave-segura-1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.CustomerID != "7001" || claims.Email != "compras@losandes.cl" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	snapshot, err := manager.Load(context.Background(), claims.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if snapshot.Tags != "b2b20, vip" || snapshot.FirstName != "Ana" {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	if resp.Entitlement == nil || resp.Entitlement.Percent != 20 {
		t.Fatalf("expected 20%% entitlement, got %+v", resp.Entitlement)
	}
	if accounts.lastLogin.IsZero() {
		t.Fatalf("expected last login to be recorded")
	}

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := manager.Load(context.Background(), claims.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("session should be revoked, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	cases := map[string]struct {
		email    string
		password string
		active   bool
	}{
		"unknown email":  {email: "nadie@losandes.cl", password: "clave-segura-1", active: true},
		"wrong password": {email: "compras@losandes.cl", password: "otra-clave-99", active: true},
		"inactive":       {email: "compras@losandes.cl", password: "clave-segura-1", active: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			account := activeAccount(t, "clave-segura-1")
			account.IsActive = tc.active
			svc, _ := buildTestService(t, &stubAccounts{account: account}, &stubCustomers{customer: &shopify.Customer{ID: 1, Email: "compras@losandes.cl"}})

			_, err := svc.Login(context.Background(), LoginRequest{Email: tc.email, Password: tc.password})
			if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestLoginRequiresRemoteCustomer(t *testing.T) {
	accounts := &stubAccounts{account: activeAccount(t, "clave-segura-1")}

	svc, _ := buildTestService(t, accounts, &stubCustomers{})
	_, err := svc.Login(context.Background(), LoginRequest{Email: "compras@losandes.cl", Password: "clave-segura-1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized without remote customer, got %v", err)
	}

	svc, _ = buildTestService(t, accounts, &stubCustomers{err: &shopify.APIError{StatusCode: 503, Body: "unavailable"}})
	_, err = svc.Login(context.Background(), LoginRequest{Email: "compras@losandes.cl", Password: "clave-segura-1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
