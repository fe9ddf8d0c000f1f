package checkout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/angelmondragon/b2b-portal/internal/customers"
	"github.com/angelmondragon/b2b-portal/internal/evidence"
	pkgcheckout "github.com/angelmondragon/b2b-portal/pkg/checkout"
)

// VariantRef is a variant identifier sent either as a JSON number or a string.
type VariantRef string

func (v *VariantRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = VariantRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("variantId must be a string or integer")
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("variantId must be a string or integer")
	}
	*v = VariantRef(n.String())
	return nil
}

// CartItem is one client-side cart line. Price is the tax-inclusive unit price.
type CartItem struct {
	VariantID VariantRef `json:"variantId" validate:"required"`
	Quantity  int        `json:"quantity" validate:"gt=0,lte=10000"`
	Price     int64      `json:"price" validate:"gte=0,lte=1000000000000"`
	Title     string     `json:"title" validate:"max=255"`
}

// SubmitRequest is the checkout body.
type SubmitRequest struct {
	Items         []CartItem `json:"items" validate:"required,min=1,max=200,dive"`
	PaymentMethod string     `json:"paymentMethod" validate:"required"`
	Comment       string     `json:"comment" validate:"max=1000"`
}

// QuoteRequest prices a cart without placing an order.
type QuoteRequest struct {
	Items []CartItem `json:"items" validate:"required,min=1,max=200,dive"`
}

// SubmitInput is what the HTTP layer hands to the pipeline.
type SubmitInput struct {
	Customer *customers.Customer
	Request  SubmitRequest
	Evidence *evidence.File
}

func lineInputs(items []CartItem) []pkgcheckout.LineInput {
	out := make([]pkgcheckout.LineInput, len(items))
	for i, item := range items {
		out[i] = pkgcheckout.LineInput{
			VariantID: string(item.VariantID),
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return out
}
