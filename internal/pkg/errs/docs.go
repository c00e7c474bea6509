// Package errs holds the error vocabulary shared across the fulfillment
// service. Every condition gets a sentinel (ErrValueIsRequired,
// ErrValueIsInvalid, ErrValueIsOutOfRange, ErrObjectNotFound) plus a struct
// carrying the offending parameter, so callers can branch with errors.Is
// while logs still name the field that failed.
//
// Constructors come in pairs, with and without a wrapping cause. Unwrap on
// each struct returns the sentinel, which keeps errors.Is working across
// adapter boundaries and through errors.Join.
package errs
