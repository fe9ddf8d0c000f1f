package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod describes how a business customer intends to settle a draft order.
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transferencia"
	PaymentMethodDeposit  PaymentMethod = "deposito"
	PaymentMethodCredit   PaymentMethod = "credito"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodTransfer,
	PaymentMethodDeposit,
	PaymentMethodCredit,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresEvidence reports whether a payment proof must accompany the order.
func (p PaymentMethod) RequiresEvidence() bool {
	switch p {
	case PaymentMethodTransfer, PaymentMethodDeposit:
		return true
	default:
		return false
	}
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPaymentMethods {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
