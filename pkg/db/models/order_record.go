package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/b2b-portal/pkg/enums"
)

// OrderRecord is the local reporting copy of a draft order accepted by the order platform.
type OrderRecord struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"`
	CustomerEmail   string              `gorm:"column:customer_email;not null"`
	CustomerID      string              `gorm:"column:customer_id;not null"`
	RemoteOrderID   int64               `gorm:"column:remote_order_id;not null"`
	OrderNumber     string              `gorm:"column:order_number;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;not null"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(14,2);not null"`
	DiscountAmount  decimal.Decimal     `gorm:"column:discount_amount;type:numeric(14,2);not null"`
	DiscountPercent int                 `gorm:"column:discount_percent;not null"`
	Currency        string              `gorm:"column:currency;not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	EvidenceURL     *string             `gorm:"column:evidence_url"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderRecord) TableName() string {
	return "b2b_orders"
}
