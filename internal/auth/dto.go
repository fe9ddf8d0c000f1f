package auth

import (
	"time"

	"github.com/angelmondragon/b2b-portal/internal/customers"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the access token and the customer it belongs to.
type LoginResponse struct {
	AccessToken string                 `json:"access_token"`
	ExpiresAt   time.Time              `json:"expires_at"`
	Customer    *customers.Customer    `json:"customer"`
	Entitlement *customers.Entitlement `json:"entitlement,omitempty"`
}
