package middleware

import (
	"context"

	"github.com/angelmondragon/b2b-portal/internal/customers"
)

type contextKey string

const (
	ctxCustomer contextKey = "customer"
	ctxAccessID contextKey = "access_id"
)

// CustomerFromContext returns the authenticated customer or nil.
func CustomerFromContext(ctx context.Context) *customers.Customer {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxCustomer).(*customers.Customer); ok {
		return v
	}
	return nil
}

// CustomerIDFromContext returns the authenticated customer's remote id, if any.
func CustomerIDFromContext(ctx context.Context) string {
	if c := CustomerFromContext(ctx); c != nil {
		return c.ID
	}
	return ""
}

func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithCustomer injects the customer into the context for downstream handlers.
func WithCustomer(ctx context.Context, customer *customers.Customer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCustomer, customer)
}

// WithAccessID injects the session identifier into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
