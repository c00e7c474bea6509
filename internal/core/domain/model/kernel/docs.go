// Package kernel contains shared value objects used across the domain model.
//
// The package provides:
//   - UUID: an immutable identifier value object wrapping github.com/google/uuid,
//     with constructor validation and a customer-facing short order reference
//
// Kernel types carry no business rules of their own; they exist so that
// aggregates and commands share one validated identity representation
// instead of passing raw strings around.
package kernel
