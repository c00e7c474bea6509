package ports

import (
	"context"

	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/domain/model/shipping"
)

// CheckoutSessionFacts is everything the fulfillment flows need from a
// checkout session held by the payment processor. CustomerAddress is the
// billing-side address the customer entered at checkout and is a lower
// priority destination candidate than ShippingAddress.
type CheckoutSessionFacts struct {
	SessionRef string

	// ClientReferenceID is the storefront user the session was created
	// for. The sync flow checks it against the caller's claimed user so a
	// leaked session reference cannot attach the order to someone else.
	ClientReferenceID string

	Facts           order.CheckoutFacts
	CustomerAddress *shipping.Address
}

// CheckoutGateway defines the contract for the payment processor API.
// The label purchase flow uses it to recover destination address
// candidates, and the sync flow uses it to pull paid-order facts.
type CheckoutGateway interface {
	// RetrieveSession fetches a checkout session with its customer
	// details, shipping details and line items expanded.
	RetrieveSession(ctx context.Context, sessionRef string) (CheckoutSessionFacts, error)
}
