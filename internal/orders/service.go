package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/b2b-portal/pkg/db/models"
	"github.com/angelmondragon/b2b-portal/pkg/enums"
	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
	"github.com/angelmondragon/b2b-portal/pkg/pagination"
)

// Service exposes the order history of a customer.
type Service interface {
	List(ctx context.Context, email string, params pagination.Params) (*ListResult, error)
}

// OrderSummary is one row of the order history.
type OrderSummary struct {
	ID              uuid.UUID           `json:"id"`
	DraftOrderID    int64               `json:"draftOrderId"`
	OrderNumber     string              `json:"orderNumber"`
	Status          enums.OrderStatus   `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	Discount        decimal.Decimal     `json:"discount"`
	DiscountPercent int                 `json:"discountPercent"`
	Currency        string              `json:"currency"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod"`
	EvidenceURL     *string             `json:"evidenceUrl,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// ListResult wraps one page of orders and the cursor for the next page.
type ListResult struct {
	Orders []OrderSummary `json:"orders"`
	Cursor string         `json:"cursor"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, email string, params pagination.Params) (*ListResult, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}

	query := listParams{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListByEmail(ctx, email, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &ListResult{Orders: make([]OrderSummary, 0, len(rows))}
	for i := range rows {
		result.Orders = append(result.Orders, summaryFromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func summaryFromModel(m *models.OrderRecord) OrderSummary {
	return OrderSummary{
		ID:              m.ID,
		DraftOrderID:    m.RemoteOrderID,
		OrderNumber:     m.OrderNumber,
		Status:          m.Status,
		Total:           m.TotalAmount,
		Discount:        m.DiscountAmount,
		DiscountPercent: m.DiscountPercent,
		Currency:        m.Currency,
		PaymentMethod:   m.PaymentMethod,
		EvidenceURL:     m.EvidenceURL,
		CreatedAt:       m.CreatedAt,
	}
}
