package ports

import (
	"context"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their fulfillment and notification state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByCheckoutSessionRef retrieves an order by the checkout session
	// reference it was created from. Used by the checkout sync flow to
	// decide between insert and update.
	GetByCheckoutSessionRef(ctx context.Context, sessionRef string) (*order.Order, error)

	// GetByTrackingNumber retrieves an order by the tracking number
	// assigned to its purchased label. Used by the tracking webhook flow.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*order.Order, error)

	// GetShippedUnnotified retrieves orders that have a purchased label
	// but no shipping notification recorded yet. Used by the retry job.
	GetShippedUnnotified(ctx context.Context, limit int) ([]*order.Order, error)

	// LockForFulfillment acquires an exclusive transaction-scoped lock on
	// the order identified by id. The lock is held until the surrounding
	// transaction commits or rolls back, serializing concurrent label
	// purchase attempts for the same order.
	LockForFulfillment(ctx context.Context, id kernel.UUID) error
}
