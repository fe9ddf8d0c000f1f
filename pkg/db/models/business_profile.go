package models

import (
	"time"

	"github.com/google/uuid"
)

// BusinessProfile holds the invoicing and contact data a customer keeps on file.
type BusinessProfile struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email            string    `gorm:"column:email;not null;uniqueIndex"`
	LegalName        string    `gorm:"column:legal_name;not null"`
	TaxID            string    `gorm:"column:tax_id;not null"`
	BusinessActivity string    `gorm:"column:business_activity;not null"`
	Address          string    `gorm:"column:address;not null"`
	Commune          string    `gorm:"column:commune;not null"`
	Region           string    `gorm:"column:region;not null"`
	ContactName      string    `gorm:"column:contact_name;not null"`
	ContactPhone     string    `gorm:"column:contact_phone;not null"`
	ContactEmail     string    `gorm:"column:contact_email;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
