package customers

import (
	"strings"

	"github.com/angelmondragon/b2b-portal/pkg/auth/session"
)

// Customer is the authenticated portal customer as captured at login.
type Customer struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Tags      string `json:"tags"`
}

// FromSnapshot rebuilds the customer stored in a session.
func FromSnapshot(s *session.Snapshot) *Customer {
	if s == nil {
		return nil
	}
	return &Customer{
		ID:        s.CustomerID,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Tags:      s.Tags,
	}
}

// Snapshot converts the customer into its session form.
func (c *Customer) Snapshot() session.Snapshot {
	return session.Snapshot{
		CustomerID: c.ID,
		Email:      c.Email,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Tags:       c.Tags,
	}
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Entitlement resolves the customer's discount from its tags.
func (c *Customer) Entitlement() (Entitlement, bool) {
	if c == nil {
		return Entitlement{}, false
	}
	return ResolveEntitlement(c.Tags)
}
