package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/b2b-portal/pkg/config"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), config.ShopifyConfig{
		ShopDomain:  srv.URL,
		AccessToken: "shpat_test",
		APIVersion:  "2024-10",
	}, nil)
	require.NoError(t, err)
	return client
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := NewClient(context.Background(), config.ShopifyConfig{AccessToken: "x"}, nil)
	require.ErrorIs(t, err, errDomainRequired)

	_, err = NewClient(context.Background(), config.ShopifyConfig{ShopDomain: "demo.myshopify.com"}, nil)
	require.ErrorIs(t, err, errTokenRequired)

	client, err := NewClient(context.Background(), config.ShopifyConfig{ShopDomain: "demo.myshopify.com/", AccessToken: "x"}, nil)
	require.NoError(t, err)
	require.Equal(t, "https://demo.myshopify.com/admin/api/2024-10", client.BaseURL())
}

func TestCreateDraftOrderSendsPayload(t *testing.T) {
	var received struct {
		DraftOrder DraftOrderInput `json:"draft_order"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/api/2024-10/draft_orders.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"draft_order":{"id":991,"name":"#D991","status":"open","total_price":"16000.00","currency":"CLP","applied_discount":{"value_type":"percentage","value":"20.0","amount":"4000.00"}}}`))
	})

	input := &DraftOrderInput{
		LineItems: []LineItem{{VariantID: 123, Quantity: 2, Price: "10000"}},
		Email:     "compras@ferreteria.cl",
		AppliedDiscount: &AppliedDiscount{
			ValueType: "percentage",
			Value:     "20",
		},
		TaxesIncluded: true,
	}
	order, err := client.CreateDraftOrder(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, received.DraftOrder.LineItems, 1)
	assert.Equal(t, int64(123), received.DraftOrder.LineItems[0].VariantID)
	assert.Equal(t, "10000", received.DraftOrder.LineItems[0].Price)
	assert.Equal(t, "20", received.DraftOrder.AppliedDiscount.Value)

	assert.Equal(t, int64(991), order.ID)
	assert.Equal(t, "CLP", order.Currency)
	assert.Equal(t, "16000", order.Total().String())
	assert.Equal(t, "4000", order.Discount().String())
}

func TestCreateDraftOrderReturnsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"line_items":["is invalid"]}}`))
	})

	_, err := client.CreateDraftOrder(context.Background(), &DraftOrderInput{})
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, `{"errors":{"line_items":["is invalid"]}}`, apiErr.Body)
}

func TestDraftOrderDiscountPrefersTotalDiscounts(t *testing.T) {
	order := &DraftOrder{TotalDiscounts: "3999.50", AppliedDiscount: &AppliedDiscount{Amount: "4000.00"}}
	assert.Equal(t, "3999.5", order.Discount().String())

	empty := &DraftOrder{}
	assert.True(t, empty.Discount().IsZero())
	assert.True(t, empty.Total().IsZero())
}

func TestFindCustomerByEmailExactMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-10/customers/search.json", r.URL.Path)
		assert.Equal(t, "email:compras@ferreteria.cl", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"customers":[
			{"id":1,"email":"otra-compras@ferreteria.cl","tags":"retail"},
			{"id":7001,"email":"Compras@Ferreteria.cl","first_name":"Ana","last_name":"Rojas","tags":"b2b20, wholesale"}
		]}`))
	})

	customer, err := client.FindCustomerByEmail(context.Background(), " compras@ferreteria.cl ")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "7001", customer.IDString())
	assert.Equal(t, "b2b20, wholesale", customer.Tags)
}

func TestFindCustomerByEmailNoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"customers":[]}`))
	})
	customer, err := client.FindCustomerByEmail(context.Background(), "nadie@example.com")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestLogRedactsSensitiveFields(t *testing.T) {
	buf := &bytes.Buffer{}
	client := &Client{logger: logger.New(logger.Options{ServiceName: "test", Output: buf})}
	client.log(context.Background(), "request", "search_customer", map[string]any{"email": "a@b.cl", "count": 1})

	assert.Contains(t, buf.String(), "[REDACTED]")
	assert.NotContains(t, buf.String(), "a@b.cl")
}
