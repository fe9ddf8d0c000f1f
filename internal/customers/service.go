package customers

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
	"gorm.io/gorm"
)

// ProfileView is what the profile endpoints return.
type ProfileView struct {
	Email       string          `json:"email"`
	Profile     BusinessProfile `json:"profile"`
	Complete    bool            `json:"complete"`
	Entitlement *Entitlement    `json:"entitlement,omitempty"`
}

// Service reads and maintains business profiles.
type Service interface {
	LoadProfile(ctx context.Context, email string) (*BusinessProfile, error)
	GetProfile(ctx context.Context, customer *Customer) (*ProfileView, error)
	UpdateProfile(ctx context.Context, customer *Customer, input BusinessProfile) (*ProfileView, error)
}

type service struct {
	repo ProfileRepository
}

// NewService builds the customers service.
func NewService(repo ProfileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

// LoadProfile returns nil without error when the customer has no profile yet.
func (s *service) LoadProfile(ctx context.Context, email string) (*BusinessProfile, error) {
	stored, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business profile")
	}
	return profileFromModel(stored), nil
}

func (s *service) GetProfile(ctx context.Context, customer *Customer) (*ProfileView, error) {
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	profile, err := s.LoadProfile(ctx, customer.Email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &BusinessProfile{}
	}
	return newView(customer, profile), nil
}

func (s *service) UpdateProfile(ctx context.Context, customer *Customer, input BusinessProfile) (*ProfileView, error) {
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	stored, err := s.repo.Upsert(ctx, customer.Email, input.Trimmed())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save business profile")
	}
	return newView(customer, profileFromModel(stored)), nil
}

func newView(customer *Customer, profile *BusinessProfile) *ProfileView {
	view := &ProfileView{
		Email:    customer.Email,
		Profile:  *profile,
		Complete: profile.IsComplete(),
	}
	if ent, ok := customer.Entitlement(); ok {
		view.Entitlement = &ent
	}
	return view
}
