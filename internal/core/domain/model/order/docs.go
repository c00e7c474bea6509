// Package order provides the Order aggregate of the fulfillment domain: one
// persisted record per completed payment, enriched over time with shipping
// and tracking facts.
//
// The package includes:
//   - Order: the aggregate root, with lifecycle methods for checkout sync,
//     label purchase, carrier-push refinement, and notification idempotency
//   - FulfillmentStatus: the coarse lifecycle stage
//     (processing/shipped/delivered/returned/shipping_issue)
//   - MapCarrierStatus: the ordered substring table translating raw carrier
//     statuses into canonical (tracking, fulfillment) pairs
//
// Key business rules:
//   - an order exists only for a checkout session; the session reference is
//     the upsert key
//   - a label URL appears exactly when a label purchase succeeded
//   - the tracking number is immutable once delivery is confirmed
//   - each customer email (confirmation, shipped) is sent at most once,
//     guarded by sent-at timestamps
package order
