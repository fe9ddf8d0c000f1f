package customers

import (
	"strings"

	"github.com/angelmondragon/b2b-portal/pkg/db/models"
)

// BusinessProfile is the invoicing and contact block a customer keeps on file.
type BusinessProfile struct {
	LegalName        string `json:"legalName" validate:"max=200"`
	TaxID            string `json:"taxId" validate:"max=20"`
	BusinessActivity string `json:"businessActivity" validate:"max=200"`
	Address          string `json:"address" validate:"max=300"`
	Commune          string `json:"commune" validate:"max=100"`
	Region           string `json:"region" validate:"max=100"`
	ContactName      string `json:"contactName" validate:"max=200"`
	ContactPhone     string `json:"contactPhone" validate:"max=40"`
	ContactEmail     string `json:"contactEmail" validate:"omitempty,email,max=200"`
}

// IsComplete is true when all nine fields are non-blank.
func (p *BusinessProfile) IsComplete() bool {
	if p == nil {
		return false
	}
	for _, field := range p.fields() {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// HasAddress reports whether a billing address can be derived from the profile.
func (p *BusinessProfile) HasAddress() bool {
	return p != nil && strings.TrimSpace(p.Address) != ""
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (p BusinessProfile) Trimmed() BusinessProfile {
	return BusinessProfile{
		LegalName:        strings.TrimSpace(p.LegalName),
		TaxID:            strings.TrimSpace(p.TaxID),
		BusinessActivity: strings.TrimSpace(p.BusinessActivity),
		Address:          strings.TrimSpace(p.Address),
		Commune:          strings.TrimSpace(p.Commune),
		Region:           strings.TrimSpace(p.Region),
		ContactName:      strings.TrimSpace(p.ContactName),
		ContactPhone:     strings.TrimSpace(p.ContactPhone),
		ContactEmail:     strings.TrimSpace(p.ContactEmail),
	}
}

func (p *BusinessProfile) fields() []string {
	return []string{
		p.LegalName,
		p.TaxID,
		p.BusinessActivity,
		p.Address,
		p.Commune,
		p.Region,
		p.ContactName,
		p.ContactPhone,
		p.ContactEmail,
	}
}

func profileFromModel(m *models.BusinessProfile) *BusinessProfile {
	if m == nil {
		return nil
	}
	return &BusinessProfile{
		LegalName:        m.LegalName,
		TaxID:            m.TaxID,
		BusinessActivity: m.BusinessActivity,
		Address:          m.Address,
		Commune:          m.Commune,
		Region:           m.Region,
		ContactName:      m.ContactName,
		ContactPhone:     m.ContactPhone,
		ContactEmail:     m.ContactEmail,
	}
}

func (p BusinessProfile) applyTo(m *models.BusinessProfile) {
	m.LegalName = p.LegalName
	m.TaxID = p.TaxID
	m.BusinessActivity = p.BusinessActivity
	m.Address = p.Address
	m.Commune = p.Commune
	m.Region = p.Region
	m.ContactName = p.ContactName
	m.ContactPhone = p.ContactPhone
	m.ContactEmail = p.ContactEmail
}
