package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/b2b-portal/api/middleware"
	"github.com/angelmondragon/b2b-portal/internal/customers"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

func testCustomer() *customers.Customer {
	return &customers.Customer{ID: "7001", Email: "buyer@example.com", FirstName: "Ana", LastName: "Rojas", Tags: "b2b20"}
}

// authedRequest builds a request carrying what middleware.Auth would have seeded.
func authedRequest(method, target, contentType string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	ctx := middleware.WithCustomer(req.Context(), testCustomer())
	ctx = middleware.WithAccessID(ctx, "jti-1")
	return req.WithContext(ctx)
}
