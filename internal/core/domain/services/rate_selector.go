package services

import (
	"sort"
	"strings"

	"phantomtrack/internal/core/domain/model/shipping"
)

// maxLabelCandidates bounds the number of sequential purchase attempts per
// label-creation request, keeping worst-case latency and cost predictable.
const maxLabelCandidates = 10

// RateSelector is a domain service that orders a shipment's candidate rates
// for the label purchase loop.
//
// Selection rules:
//   - candidates priced in the expected currency are preferred; if that
//     filter empties the set, the unfiltered set is used instead, because a
//     currency-metadata quirk on the aggregator side must not block shipping
//   - remaining candidates are sorted ascending by price (cheapest first)
//   - the list is capped at a fixed maximum of sequential attempts
//
// This is a greedy sequential-fallback ordering, not a scored optimization:
// the caller attempts purchases in the returned order and stops at the first
// success.
type RateSelector struct {
	expectedCurrency string
}

// NewRateSelector creates a selector preferring rates quoted in the given
// currency (e.g. "USD").
func NewRateSelector(expectedCurrency string) RateSelector {
	return RateSelector{expectedCurrency: strings.ToUpper(strings.TrimSpace(expectedCurrency))}
}

// Candidates returns the purchase-loop candidate list for the given rates:
// currency-filtered when possible, price-ascending, capped.
func (s RateSelector) Candidates(rates []shipping.Rate) []shipping.Rate {
	filtered := make([]shipping.Rate, 0, len(rates))
	for _, r := range rates {
		if strings.ToUpper(r.Currency) == s.expectedCurrency {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		filtered = append(filtered, rates...)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Amount < filtered[j].Amount
	})

	if len(filtered) > maxLabelCandidates {
		filtered = filtered[:maxLabelCandidates]
	}
	return filtered
}
