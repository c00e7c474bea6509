package order

import (
	"fmt"
	"strings"

	"phantomtrack/internal/pkg/errs"
)

// FulfillmentStatus is the coarse order-lifecycle stage. Stored as its string
// form, which is what the admin console and customer order pages render.
type FulfillmentStatus string

const (
	// Processing is the initial stage after payment: no label yet.
	Processing FulfillmentStatus = "processing"

	// Shipped means a label exists; the package may be anywhere between
	// the origin and the destination.
	Shipped FulfillmentStatus = "shipped"

	// Delivered is set when a carrier push confirms delivery.
	Delivered FulfillmentStatus = "delivered"

	// Returned is set when a carrier push reports a return to sender.
	Returned FulfillmentStatus = "returned"

	// ShippingIssue is set when a carrier push reports a delivery failure.
	ShippingIssue FulfillmentStatus = "shipping_issue"
)

func validFulfillmentStatuses() map[FulfillmentStatus]struct{} {
	return map[FulfillmentStatus]struct{}{
		Processing:    {},
		Shipped:       {},
		Delivered:     {},
		Returned:      {},
		ShippingIssue: {},
	}
}

// Validate checks that the status is one of the known lifecycle stages.
func (s FulfillmentStatus) Validate() error {
	if _, ok := validFulfillmentStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment_status",
			fmt.Errorf("%q is not a valid fulfillment status", string(s)))
	}
	return nil
}

func (s FulfillmentStatus) String() string {
	return string(s)
}

// ParseFulfillmentStatus converts an external string to a FulfillmentStatus,
// rejecting unknown values.
func ParseFulfillmentStatus(s string) (FulfillmentStatus, error) {
	status := FulfillmentStatus(strings.ToLower(strings.TrimSpace(s)))
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Canonical tracking statuses produced by the carrier-status mapper. The
// tracking status column itself is free-form (an unmapped carrier status is
// stored uppercased), so these are conventions rather than an enum.
const (
	TrackingDelivered      = "DELIVERED"
	TrackingInTransit      = "IN_TRANSIT"
	TrackingOutForDelivery = "OUT_FOR_DELIVERY"
	TrackingReturned       = "RETURNED"
	TrackingFailure        = "FAILURE"
	TrackingUnknown        = "UNKNOWN"
)

// statusMapping is one substring rule of the carrier-status table.
type statusMapping struct {
	substring   string
	tracking    string
	fulfillment FulfillmentStatus
}

// carrierStatusTable is the ordered, first-match-wins substring table mapping
// a raw carrier status to the canonical (tracking, fulfillment) pair.
// Order matters: "out_for_delivery" contains "delivery" but not "delivered",
// and "return" must win over the generic fallback.
func carrierStatusTable() []statusMapping {
	return []statusMapping{
		{"delivered", TrackingDelivered, Delivered},
		{"transit", TrackingInTransit, Shipped},
		{"out_for_delivery", TrackingOutForDelivery, Shipped},
		{"return", TrackingReturned, Returned},
		{"fail", TrackingFailure, ShippingIssue},
	}
}

// MapCarrierStatus maps a raw carrier status string through the ordered
// substring table (case-insensitive). Unmatched non-empty statuses are kept
// uppercased with fulfillment "shipped"; an empty status maps to UNKNOWN,
// also "shipped".
func MapCarrierStatus(raw string) (trackingStatus string, fulfillmentStatus FulfillmentStatus) {
	s := strings.ToLower(raw)
	for _, m := range carrierStatusTable() {
		if strings.Contains(s, m.substring) {
			return m.tracking, m.fulfillment
		}
	}
	if raw == "" {
		return TrackingUnknown, Shipped
	}
	return strings.ToUpper(raw), Shipped
}
