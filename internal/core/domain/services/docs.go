// Package services contains stateless domain services that implement
// decision logic spanning multiple value objects.
//
// RateSelector orders a shipment's candidate rates for the label purchase
// loop: expected-currency preference with a defensive fallback, cheapest
// first, capped attempt count.
package services
