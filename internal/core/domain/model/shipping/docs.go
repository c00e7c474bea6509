// Package shipping provides the value objects of the fulfillment domain:
// postal addresses, candidate rates, label transactions, parcels, and inbound
// tracking events.
//
// The package includes:
//   - Address: the canonical postal-address record, parsed from the several
//     shapes external systems use, with US state normalization and structured
//     completeness checking
//   - Rate and Transaction: the aggregator's candidate rates and the result
//     of purchasing a label against one of them
//   - AttemptFailure: the diagnostic record kept for each failed purchase
//   - TrackingEvent: a normalized inbound carrier-status push
//
// Key business rules:
//   - US addresses carry two-letter state codes; full state names are
//     normalized before any carrier call, and unrecognized names are rejected
//   - Label creation requires line1, city, state, postal_code, and country;
//     the incomplete-address error names exactly the missing fields
//   - Tracking pushes with no recognizable tracking number are typed as
//     unrecognized rather than guessed at
package shipping
