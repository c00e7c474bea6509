package commands

import (
	"errors"
	"fmt"
	"strings"

	"phantomtrack/internal/core/domain/model/shipping"
)

// maxReportedAttempts bounds how many per-rate failures a LabelPurchaseError
// carries. The purchase loop may try up to ten rates; reporting every one
// bloats responses and logs without adding signal.
const maxReportedAttempts = 5

var (
	// ErrNoRatesAvailable means the shipping provider quoted zero rates for
	// the shipment. Nothing can be purchased; the destination or parcel is
	// likely unserviceable.
	ErrNoRatesAvailable = errors.New("no shipping rates available for this address")

	// ErrLabelAlreadyPurchased means the order already has a purchased label.
	// A second purchase attempt, concurrent or later, is rejected rather than
	// double-charged.
	ErrLabelAlreadyPurchased = errors.New("label already purchased for this order")
)

// LabelPurchaseError means every candidate rate was tried and none produced a
// usable label. Attempts holds the per-rate outcomes, capped at
// maxReportedAttempts, cheapest rate first; Total is the uncapped count.
type LabelPurchaseError struct {
	Attempts []shipping.AttemptFailure
	Total    int
}

func (e *LabelPurchaseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unable to purchase label: all %d attempted rate(s) failed", e.Total)
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, "; %s %s (%.2f %s): %s", a.Provider, a.ServiceLevel, a.Amount, a.Currency, a.Status)
	}
	return sb.String()
}

// NewLabelPurchaseError builds a LabelPurchaseError from the full attempt
// log, keeping only the first maxReportedAttempts entries.
func NewLabelPurchaseError(attempts []shipping.AttemptFailure) *LabelPurchaseError {
	total := len(attempts)
	if total > maxReportedAttempts {
		attempts = attempts[:maxReportedAttempts]
	}
	return &LabelPurchaseError{Attempts: attempts, Total: total}
}
