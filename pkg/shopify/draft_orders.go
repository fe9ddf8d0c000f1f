package shopify

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// DraftOrderInput is the body of a draft order creation request.
type DraftOrderInput struct {
	LineItems       []LineItem       `json:"line_items"`
	Customer        *CustomerRef     `json:"customer,omitempty"`
	Email           string           `json:"email,omitempty"`
	Note            string           `json:"note,omitempty"`
	Tags            string           `json:"tags,omitempty"`
	AppliedDiscount *AppliedDiscount `json:"applied_discount,omitempty"`
	BillingAddress  *Address         `json:"billing_address,omitempty"`
	TaxesIncluded   bool             `json:"taxes_included"`
}

type LineItem struct {
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Title     string `json:"title,omitempty"`
}

type CustomerRef struct {
	ID int64 `json:"id"`
}

type AppliedDiscount struct {
	ValueType   string `json:"value_type"`
	Value       string `json:"value"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount,omitempty"`
}

type Address struct {
	Company   string `json:"company,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Address1  string `json:"address1"`
	City      string `json:"city,omitempty"`
	Province  string `json:"province,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// DraftOrder is the accepted draft order as returned by the Admin API.
type DraftOrder struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Status          string           `json:"status"`
	TotalPrice      string           `json:"total_price"`
	SubtotalPrice   string           `json:"subtotal_price"`
	TotalTax        string           `json:"total_tax"`
	TotalDiscounts  string           `json:"total_discounts,omitempty"`
	Currency        string           `json:"currency"`
	AppliedDiscount *AppliedDiscount `json:"applied_discount,omitempty"`
	InvoiceURL      string           `json:"invoice_url,omitempty"`
}

// Total parses TotalPrice; malformed or empty values read as zero.
func (d *DraftOrder) Total() decimal.Decimal {
	return parseMoney(d.TotalPrice)
}

// Discount prefers total_discounts and falls back to the applied discount amount.
func (d *DraftOrder) Discount() decimal.Decimal {
	if strings.TrimSpace(d.TotalDiscounts) != "" {
		return parseMoney(d.TotalDiscounts)
	}
	if d.AppliedDiscount != nil {
		return parseMoney(d.AppliedDiscount.Amount)
	}
	return decimal.Zero
}

type draftOrderEnvelope[T any] struct {
	DraftOrder T `json:"draft_order"`
}

// CreateDraftOrder submits the draft order once; non-2xx answers come back as *APIError.
func (c *Client) CreateDraftOrder(ctx context.Context, input *DraftOrderInput) (*DraftOrder, error) {
	c.log(ctx, "request", "create_draft_order", map[string]any{
		"line_items": len(input.LineItems),
		"tags":       input.Tags,
	})

	var out draftOrderEnvelope[DraftOrder]
	if err := c.doJSON(ctx, http.MethodPost, "/draft_orders.json", draftOrderEnvelope[*DraftOrderInput]{DraftOrder: input}, &out); err != nil {
		c.log(ctx, "error", "create_draft_order", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "create_draft_order", map[string]any{
		"draft_order_id": out.DraftOrder.ID,
		"name":           out.DraftOrder.Name,
	})
	return &out.DraftOrder, nil
}

func parseMoney(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return value
}
