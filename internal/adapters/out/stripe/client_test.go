package stripe_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"phantomtrack/internal/adapters/out/stripe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RetrieveSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions/cs_test_123", r.URL.Path)
		require.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.RawQuery, "expand")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cs_test_123",
			"customer": "cus_42",
			"client_reference_id": "user-1",
			"payment_status": "paid",
			"amount_total": 4599,
			"currency": "usd",
			"created": 1756300000,
			"customer_details": {
				"name": "Jamie Rivera",
				"email": "jamie@example.com",
				"phone": "+15125550100",
				"address": {"line1": "1 Billing Way", "city": "Dallas", "state": "TX", "postal_code": "75201", "country": "US"}
			},
			"shipping_details": {
				"name": "Jamie Rivera",
				"address": {"line1": "100 Elm St", "city": "Austin", "state": "TX", "postal_code": "78701", "country": "US"}
			},
			"line_items": {
				"data": [{"description": "Vinyl LP", "quantity": 1, "amount_total": 4599}]
			}
		}`))
	}))
	defer server.Close()

	client := stripe.NewClient("sk_test_key", stripe.WithBaseURL(server.URL))
	session, err := client.RetrieveSession(t.Context(), "cs_test_123")
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", session.SessionRef)
	assert.Equal(t, "user-1", session.ClientReferenceID)
	assert.Equal(t, "paid", session.Facts.PaymentStatus)
	assert.Equal(t, int64(4599), session.Facts.AmountTotalCents)
	assert.Equal(t, "jamie@example.com", session.Facts.CustomerEmail)

	require.NotNil(t, session.Facts.ShippingAddress)
	assert.Equal(t, "100 Elm St", session.Facts.ShippingAddress.Line1)
	require.NotNil(t, session.CustomerAddress)
	assert.Equal(t, "1 Billing Way", session.CustomerAddress.Line1)

	require.Len(t, session.Facts.LineItems, 1)
	assert.Equal(t, "Vinyl LP", session.Facts.LineItems[0].Description)
}

func TestClient_RetrieveSession_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"type": "invalid_request_error"}}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := stripe.NewClient("sk_test_key", stripe.WithBaseURL(server.URL))
	_, err := client.RetrieveSession(t.Context(), "cs_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
