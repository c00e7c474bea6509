// Package queries contains read-only operations for the back office.
// Implements the Query side of the CQRS architecture: handlers read
// projection-shaped rows straight from the database, bypassing the
// aggregate model.
package queries

import (
	"encoding/json"
	"errors"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with every field the back-office detail
// view shows.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order by its identifier.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order identifier to look up.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the full order detail row.
type GetOrderQueryResponse struct {
	ID                    kernel.UUID     `json:"id"`
	Ref                   string          `json:"ref"`
	UserID                string          `json:"user_id"`
	CheckoutSessionRef    string          `json:"checkout_session_ref"`
	PaymentStatus         string          `json:"payment_status"`
	AmountTotalCents      int64           `json:"amount_total_cents"`
	Currency              string          `json:"currency"`
	CustomerEmail         string          `json:"customer_email"`
	ShippingName          string          `json:"shipping_name"`
	ShippingPhone         string          `json:"shipping_phone"`
	ShippingAddress       json.RawMessage `json:"shipping_address,omitempty"`
	LineItems             json.RawMessage `json:"line_items,omitempty"`
	TrackingNumber        string          `json:"tracking_number"`
	TrackingCarrier       string          `json:"tracking_carrier"`
	TrackingURL           string          `json:"tracking_url"`
	LabelURL              string          `json:"label_url"`
	FulfillmentStatus     string          `json:"fulfillment_status"`
	TrackingStatus        string          `json:"tracking_status"`
	TrackingStatusDetails json.RawMessage `json:"tracking_status_details,omitempty"`
	CreatedAt             string          `json:"created_at"`
}
