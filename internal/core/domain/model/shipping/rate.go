package shipping

import (
	"slices"
	"strings"
)

// Rate is one priced carrier service-level option returned by the rate
// aggregator for a shipment. Rates are ephemeral: they are fetched per
// label-creation request and never persisted except for the provider of the
// one that was purchased.
type Rate struct {
	// ObjectID is the aggregator's opaque identifier used to purchase a
	// label against this rate.
	ObjectID string

	// Provider is the carrier name as declared by the aggregator.
	Provider string

	// ServiceLevel is the carrier's service-level name (e.g. "Priority Mail").
	ServiceLevel string

	// Amount is the quoted price in Currency units.
	Amount float64

	// Currency is the ISO currency code of the quote.
	Currency string
}

// Transaction is the result of attempting to purchase a label against one
// rate: either a shippable label or a structured failure.
type Transaction struct {
	ObjectID       string
	Status         string
	LabelURL       string
	TrackingNumber string
	TrackingURL    string

	// RateProvider is the carrier reported on the transaction itself;
	// preferred over the candidate rate's declared provider when set.
	RateProvider string

	// Messages carries the aggregator's failure diagnostics, one entry per
	// reported message.
	Messages []TransactionMessage
}

// TransactionMessage is one diagnostic entry on a failed purchase attempt.
type TransactionMessage struct {
	Code string `json:"code,omitempty"`
	Text string `json:"text,omitempty"`
}

// transactionStatusSuccess is the aggregator's terminal success status.
const transactionStatusSuccess = "SUCCESS"

// carrierRegistrationErrorCode marks the common failure where the cheapest
// carrier is not activated on the aggregator account. The purchase loop
// treats it like any other failure (next candidate is tried either way); the
// code is surfaced in diagnostics so the operator knows which carrier to
// activate.
const carrierRegistrationErrorCode = "ups_registration_error"

// Succeeded reports whether the purchase attempt produced a label.
func (t *Transaction) Succeeded() bool {
	return t.Status == transactionStatusSuccess
}

// Codes returns the message codes of a failed attempt, skipping empty ones.
func (t *Transaction) Codes() []string {
	codes := make([]string, 0, len(t.Messages))
	for _, m := range t.Messages {
		if m.Code != "" {
			codes = append(codes, m.Code)
		}
	}
	return codes
}

// IsCarrierRegistrationFailure reports whether the attempt failed because the
// carrier is not activated on the aggregator account.
func (t *Transaction) IsCarrierRegistrationFailure() bool {
	return slices.Contains(t.Codes(), carrierRegistrationErrorCode)
}

// Carrier returns the carrier to record on the order: the transaction's own
// reported carrier when present, otherwise the purchased rate's declared
// provider.
func (t *Transaction) Carrier(purchased Rate) string {
	if strings.TrimSpace(t.RateProvider) != "" {
		return t.RateProvider
	}
	return purchased.Provider
}

// AttemptFailure records one failed purchase attempt for operator
// diagnostics: which carrier, at what price, and the raw error codes.
type AttemptFailure struct {
	Provider     string               `json:"provider"`
	Amount       float64              `json:"amount"`
	Currency     string               `json:"currency"`
	ServiceLevel string               `json:"servicelevel"`
	Status       string               `json:"status"`
	Messages     []TransactionMessage `json:"messages,omitempty"`
}

// Parcel is the fixed parcel description used for every shipment; dimensions
// and weight come from configuration, not from the order.
type Parcel struct {
	Length       string `json:"length"`
	Width        string `json:"width"`
	Height       string `json:"height"`
	DistanceUnit string `json:"distance_unit"`
	Weight       string `json:"weight"`
	MassUnit     string `json:"mass_unit"`
}

// Shipment describes a rate request: fixed origin, normalized destination,
// and the configured parcel.
type Shipment struct {
	From   Address
	To     Address
	Parcel Parcel
}
