package checkout

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
)

// Cart bounds keep every line and cart total inside int64 currency units.
const (
	MaxCartLines    = 200
	MaxLineQuantity = 10_000
	MaxUnitPrice    = 1_000_000_000_000
)

// LineInput is the part of a cart line that can be checked without any remote call.
type LineInput struct {
	VariantID string
	Quantity  int
	Price     int64
}

// LineViolation is returned to callers when a cart line cannot be ordered.
type LineViolation struct {
	Index     int    `json:"index"`
	VariantID string `json:"variantId,omitempty"`
	Reason    string `json:"reason"`
}

// ParseVariantID accepts a bare positive integer or a global id such as
// gid://shopify/ProductVariant/123 and returns the trailing numeric id.
func ParseVariantID(raw string) (int64, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	if strings.HasPrefix(value, "gid://") {
		idx := strings.LastIndex(value, "/")
		value = value[idx+1:]
		if q := strings.IndexAny(value, "?#"); q >= 0 {
			value = value[:q]
		}
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ValidateLines checks every line and reports all violations at once.
func ValidateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if len(lines) > MaxCartLines {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart has more than %d lines", MaxCartLines))
	}

	var violations []LineViolation
	for i, line := range lines {
		switch {
		case line.Quantity <= 0:
			violations = append(violations, LineViolation{Index: i, VariantID: line.VariantID, Reason: "quantity must be positive"})
		case line.Quantity > MaxLineQuantity:
			violations = append(violations, LineViolation{Index: i, VariantID: line.VariantID, Reason: fmt.Sprintf("quantity must not exceed %d", MaxLineQuantity)})
		case line.Price < 0:
			violations = append(violations, LineViolation{Index: i, VariantID: line.VariantID, Reason: "price must not be negative"})
		case line.Price > MaxUnitPrice:
			violations = append(violations, LineViolation{Index: i, VariantID: line.VariantID, Reason: fmt.Sprintf("price must not exceed %d", MaxUnitPrice)})
		}
		if _, ok := ParseVariantID(line.VariantID); !ok {
			violations = append(violations, LineViolation{Index: i, VariantID: line.VariantID, Reason: "variant id is not resolvable"})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%d cart line(s) cannot be ordered", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
