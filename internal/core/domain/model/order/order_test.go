package order_test

import (
	"testing"
	"time"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/domain/model/shipping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "user-1", "cs_test_123")
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id := kernel.NewUUID()
		o, err := order.NewOrder(id, "user-1", "cs_test_123")
		require.NoError(t, err)
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, "cs_test_123", o.CheckoutSessionRef())
		assert.Equal(t, order.Processing, o.FulfillmentStatus())
		assert.Empty(t, o.LabelURL())
	})

	t.Run("requires id", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, "user-1", "cs_test_123")
		require.Error(t, err)
	})

	t.Run("requires checkout session ref", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), "user-1", "  ")
		require.Error(t, err)
	})
}

func TestOrder_Validate(t *testing.T) {
	var zero order.Order
	require.ErrorIs(t, zero.Validate(), order.ErrOrderIsNotConstructed)
	require.NoError(t, newTestOrder(t).Validate())
}

func TestOrder_ApplyCheckoutFacts(t *testing.T) {
	o := newTestOrder(t)
	addr := &shipping.Address{Line1: "123 Main St", City: "Austin", State: "TX", PostalCode: "78701", Country: "US"}

	o.ApplyCheckoutFacts(order.CheckoutFacts{
		PaymentStatus:    "paid",
		AmountTotalCents: 19900,
		Currency:         "usd",
		CustomerEmail:    "jo@example.com",
		ShippingName:     "Jo Smith",
		ShippingAddress:  addr,
		LineItems:        []order.LineItem{{Description: "Phantom Track", Quantity: 1, AmountCents: 19900}},
	})

	assert.Equal(t, int64(19900), o.AmountTotalCents())
	assert.Equal(t, "jo@example.com", o.CustomerEmail())
	assert.Equal(t, addr, o.ShippingAddress())

	// A later partial sync does not blank out known facts.
	o.ApplyCheckoutFacts(order.CheckoutFacts{PaymentStatus: "paid"})
	assert.Equal(t, "jo@example.com", o.CustomerEmail())
	assert.Len(t, o.LineItems(), 1)
}

func TestOrder_MarkShipped(t *testing.T) {
	rate := shipping.Rate{ObjectID: "rate_1", Provider: "USPS", Amount: 7.33, Currency: "USD"}

	t.Run("records label and tracking fields", func(t *testing.T) {
		o := newTestOrder(t)
		tx := &shipping.Transaction{
			ObjectID:       "txn_1",
			Status:         "SUCCESS",
			LabelURL:       "https://labels.example.com/1.pdf",
			TrackingNumber: "9400111899",
			TrackingURL:    "https://track.example.com/9400111899",
		}

		require.NoError(t, o.MarkShipped("shp_1", tx, rate))
		assert.Equal(t, "9400111899", o.TrackingNumber())
		assert.Equal(t, "USPS", o.TrackingCarrier())
		assert.Equal(t, "https://labels.example.com/1.pdf", o.LabelURL())
		assert.Equal(t, order.Shipped, o.FulfillmentStatus())
		assert.Equal(t, order.TrackingUnknown, o.TrackingStatus())
		assert.Nil(t, o.TrackingStatusDetails())
	})

	t.Run("prefers the transaction's reported carrier", func(t *testing.T) {
		o := newTestOrder(t)
		tx := &shipping.Transaction{
			Status:         "SUCCESS",
			LabelURL:       "https://labels.example.com/1.pdf",
			TrackingNumber: "1Z999",
			RateProvider:   "FedEx",
		}

		require.NoError(t, o.MarkShipped("shp_1", tx, rate))
		assert.Equal(t, "FedEx", o.TrackingCarrier())
	})

	t.Run("rejects failed transactions", func(t *testing.T) {
		o := newTestOrder(t)
		tx := &shipping.Transaction{Status: "ERROR"}
		require.ErrorIs(t, o.MarkShipped("shp_1", tx, rate), order.ErrLabelNotPurchased)
		assert.Empty(t, o.LabelURL())
	})
}

func TestOrder_ApplyTrackingUpdate(t *testing.T) {
	t.Run("maps and applies the carrier status", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.ApplyTrackingUpdate(shipping.TrackingEvent{
			TrackingNumber: "1Z999",
			RawStatus:      "In Transit to destination",
			Details:        []byte(`{"status":"In Transit to destination"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, "IN_TRANSIT", o.TrackingStatus())
		assert.Equal(t, order.Shipped, o.FulfillmentStatus())
		assert.Equal(t, "1Z999", o.TrackingNumber())
		assert.NotNil(t, o.TrackingStatusDetails())
	})

	t.Run("tracking number locked after delivery", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ApplyTrackingUpdate(shipping.TrackingEvent{
			TrackingNumber: "1Z999", RawStatus: "delivered",
		}))
		assert.Equal(t, order.Delivered, o.FulfillmentStatus())

		err := o.ApplyTrackingUpdate(shipping.TrackingEvent{
			TrackingNumber: "OTHER", RawStatus: "transit",
		})
		require.ErrorIs(t, err, order.ErrTrackingNumberLocked)
		assert.Equal(t, "1Z999", o.TrackingNumber())
	})

	t.Run("same tracking number can still refine after delivery", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ApplyTrackingUpdate(shipping.TrackingEvent{
			TrackingNumber: "1Z999", RawStatus: "delivered",
		}))
		require.NoError(t, o.ApplyTrackingUpdate(shipping.TrackingEvent{
			TrackingNumber: "1Z999", RawStatus: "return_to_sender",
		}))
		assert.Equal(t, order.Returned, o.FulfillmentStatus())
	})
}

func TestOrder_SetManualTracking(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.SetManualTracking(" 1Z999 ", "UPS", "https://track/1Z999", order.Shipped))
	assert.Equal(t, "1Z999", o.TrackingNumber())
	assert.Equal(t, "UPS", o.TrackingCarrier())
	assert.Equal(t, order.Shipped, o.FulfillmentStatus())

	require.Error(t, o.SetManualTracking("1Z999", "UPS", "", order.FulfillmentStatus("bogus")))
}

func TestOrder_ShippingNotification(t *testing.T) {
	o := newTestOrder(t)
	o.ApplyCheckoutFacts(order.CheckoutFacts{CustomerEmail: "jo@example.com"})

	// Not shipped yet.
	assert.False(t, o.NeedsShippingNotification())

	tx := &shipping.Transaction{
		Status: "SUCCESS", LabelURL: "https://l/1.pdf", TrackingNumber: "1Z999",
	}
	require.NoError(t, o.MarkShipped("shp_1", tx, shipping.Rate{Provider: "USPS"}))
	assert.True(t, o.NeedsShippingNotification())

	o.MarkShippingNotified(time.Now())
	assert.False(t, o.NeedsShippingNotification())
	assert.NotNil(t, o.ShippingEmailSentAt())
}

func TestOrder_RestoreRoundTrip(t *testing.T) {
	o := newTestOrder(t)
	o.ApplyCheckoutFacts(order.CheckoutFacts{
		CustomerEmail:    "jo@example.com",
		AmountTotalCents: 19900,
		Currency:         "usd",
	})

	restored, err := order.RestoreOrder(o.Snapshot())
	require.NoError(t, err)
	assert.True(t, restored.IsEqual(o))
	assert.Equal(t, o.CustomerEmail(), restored.CustomerEmail())
	assert.Equal(t, o.FulfillmentStatus(), restored.FulfillmentStatus())
}

func TestRestoreOrder_Invalid(t *testing.T) {
	_, err := order.RestoreOrder(order.Snapshot{})
	require.Error(t, err)

	_, err = order.RestoreOrder(order.Snapshot{
		ID:                 kernel.NewUUID(),
		CheckoutSessionRef: "cs_1",
		FulfillmentStatus:  order.FulfillmentStatus("bogus"),
	})
	require.Error(t, err)
}
