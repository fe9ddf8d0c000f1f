package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Customer is the subset of the customer resource the portal reads.
type Customer struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Tags      string `json:"tags"`
	State     string `json:"state"`
}

// IDString renders the numeric id the way it is stored in sessions and records.
func (c *Customer) IDString() string {
	return fmt.Sprintf("%d", c.ID)
}

// FindCustomerByEmail returns the customer whose email matches exactly, or nil when none does.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("query", "email:"+email)
	q.Set("limit", "5")
	c.log(ctx, "request", "search_customer", map[string]any{"email": email})

	var out struct {
		Customers []Customer `json:"customers"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/customers/search.json?"+q.Encode(), nil, &out); err != nil {
		c.log(ctx, "error", "search_customer", map[string]any{"error": err.Error()})
		return nil, err
	}

	// search is fuzzy; only an exact match identifies the account
	for i := range out.Customers {
		if strings.EqualFold(strings.TrimSpace(out.Customers[i].Email), email) {
			customer := out.Customers[i]
			c.log(ctx, "response", "search_customer", map[string]any{"customer_id": customer.ID})
			return &customer, nil
		}
	}
	c.log(ctx, "response", "search_customer", map[string]any{"found": false})
	return nil, nil
}
