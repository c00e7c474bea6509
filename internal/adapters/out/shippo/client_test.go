package shippo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"phantomtrack/internal/adapters/out/shippo"
	"phantomtrack/internal/core/domain/model/shipping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShipment() shipping.Shipment {
	return shipping.Shipment{
		From: shipping.Address{
			Line1: "500 Depot Rd", City: "Reno", State: "NV",
			PostalCode: "89502", Country: "US",
		},
		To: shipping.Address{
			Line1: "100 Elm St", City: "Austin", State: "TX",
			PostalCode: "78701", Country: "US",
		},
		Parcel: shipping.Parcel{
			Length: "10", Width: "8", Height: "4",
			DistanceUnit: "in", Weight: "2", MassUnit: "lb",
		},
	}
}

func TestClient_CreateShipment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/shipments/", r.URL.Path)
		require.Equal(t, "ShippoToken test-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["async"])
		addrTo := body["address_to"].(map[string]any)
		assert.Equal(t, "78701", addrTo["zip"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object_id": "shp_1",
			"rates": [
				{"object_id": "r1", "provider": "USPS", "servicelevel": {"name": "Priority Mail"}, "amount": "7.33", "currency": "USD"},
				{"object_id": "r2", "provider": "UPS", "servicelevel": {"name": "Ground"}, "amount": "not-a-number", "currency": "USD"}
			]
		}`))
	}))
	defer server.Close()

	client := shippo.NewClient("test-token", shippo.WithBaseURL(server.URL))
	shipmentRef, rates, err := client.CreateShipment(t.Context(), testShipment())
	require.NoError(t, err)

	assert.Equal(t, "shp_1", shipmentRef)
	require.Len(t, rates, 1) // unparseable amount dropped
	assert.Equal(t, "USPS", rates[0].Provider)
	assert.Equal(t, "Priority Mail", rates[0].ServiceLevel)
	assert.InDelta(t, 7.33, rates[0].Amount, 0.001)
}

func TestClient_PurchaseLabel_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transactions/", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r1", body["rate"])
		assert.Equal(t, "PDF", body["label_file_type"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object_id": "txn_1",
			"status": "SUCCESS",
			"tracking_number": "9400100000000000000001",
			"label_url": "https://labels.example/1.pdf",
			"tracking_url_provider": "https://track.example/1",
			"rate": {"provider": "USPS"}
		}`))
	}))
	defer server.Close()

	client := shippo.NewClient("test-token", shippo.WithBaseURL(server.URL))
	tx, err := client.PurchaseLabel(t.Context(), "r1")
	require.NoError(t, err)

	assert.True(t, tx.Succeeded())
	assert.Equal(t, "9400100000000000000001", tx.TrackingNumber)
	assert.Equal(t, "https://labels.example/1.pdf", tx.LabelURL)
	assert.Equal(t, "USPS", tx.RateProvider)
}

func TestClient_PurchaseLabel_ProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object_id": "txn_2",
			"status": "ERROR",
			"messages": [{"code": "ups_registration_error", "text": "carrier account not registered"}]
		}`))
	}))
	defer server.Close()

	client := shippo.NewClient("test-token", shippo.WithBaseURL(server.URL))
	tx, err := client.PurchaseLabel(t.Context(), "r2")
	require.NoError(t, err)

	assert.False(t, tx.Succeeded())
	assert.True(t, tx.IsCarrierRegistrationFailure())
}

func TestClient_CreateShipment_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail": "invalid token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := shippo.NewClient("bad-token", shippo.WithBaseURL(server.URL))
	_, _, err := client.CreateShipment(t.Context(), testShipment())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
