package ports

import (
	"context"

	"phantomtrack/internal/core/domain/model/shipping"
)

// CarrierClient defines the contract for the external shipping provider.
// It covers the two calls the label purchase flow needs: quoting rates
// for a shipment and buying a label for a chosen rate.
type CarrierClient interface {
	// CreateShipment submits a shipment (origin, destination, parcel) to
	// the provider and returns the provider shipment reference together
	// with the quoted rates. An empty rate list is a valid response and
	// is treated as fatal by the caller.
	CreateShipment(ctx context.Context, shipment shipping.Shipment) (shipmentRef string, rates []shipping.Rate, err error)

	// PurchaseLabel buys a label for the given rate. A non-nil error
	// means the call itself failed. A returned transaction with a
	// non-success status is a provider-side rejection and carries the
	// provider messages explaining it.
	PurchaseLabel(ctx context.Context, rateObjectID string) (shipping.Transaction, error)
}
