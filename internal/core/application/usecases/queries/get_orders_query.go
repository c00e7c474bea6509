package queries

import (
	"errors"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/pkg/errs"
	"phantomtrack/internal/pkg/guard"
)

const (
	defaultOrdersLimit = 50
	maxOrdersLimit     = 200
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// GetOrdersQuery retrieves the most recent orders for the back-office list
// view, newest first.
type GetOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates a recent-orders query. A zero limit falls back
// to the default page size; limits above the cap are rejected.
func NewGetOrdersQuery(limit int) (GetOrdersQuery, error) {
	if limit == 0 {
		limit = defaultOrdersLimit
	}
	if limit < 0 || limit > maxOrdersLimit {
		return GetOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxOrdersLimit)
	}

	return GetOrdersQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrdersQueryIsNotConstructed if validation fails.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// Limit returns the page size.
func (q GetOrdersQuery) Limit() int {
	return q.limit
}

// GetOrdersQueryResponse is one row of the back-office order list.
type GetOrdersQueryResponse struct {
	ID                kernel.UUID `json:"id"`
	Ref               string      `json:"ref"`
	CustomerEmail     string      `json:"customer_email"`
	ShippingName      string      `json:"shipping_name"`
	AmountTotalCents  int64       `json:"amount_total_cents"`
	Currency          string      `json:"currency"`
	FulfillmentStatus string      `json:"fulfillment_status"`
	TrackingNumber    string      `json:"tracking_number"`
	TrackingCarrier   string      `json:"tracking_carrier"`
	CreatedAt         string      `json:"created_at"`
}
