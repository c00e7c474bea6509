package orderrepo

import (
	"context"
	"errors"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// ErrDuplicateCheckoutSession means an order for the checkout session already
// exists. Raised when two syncs race past the existence check and the unique
// index catches the second insert.
var ErrDuplicateCheckoutSession = errors.New("order for checkout session already exists")

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateCheckoutSession
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	// Select("*") so cleared tracking fields and zeroed amounts still write.
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByCheckoutSessionRef retrieves the order created from a checkout session.
func (r *GormOrderRepository) GetByCheckoutSessionRef(ctx context.Context, sessionRef string) (*order.Order, error) {
	if sessionRef == "" {
		return nil, errs.NewValueIsRequiredError("sessionRef")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "checkout_session_ref = ?", sessionRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", sessionRef)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingNumber retrieves the order carrying a tracking number.
// The newest order wins if a number was ever reused across orders.
func (r *GormOrderRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*order.Order, error) {
	if trackingNumber == "" {
		return nil, errs.NewValueIsRequiredError("trackingNumber")
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&dto, "tracking_number = ?", trackingNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", trackingNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetShippedUnnotified retrieves shipped orders whose shipped email has not
// been recorded yet, oldest first.
func (r *GormOrderRepository) GetShippedUnnotified(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("fulfillment_status = ?", string(order.Shipped)).
		Where("tracking_number <> ''").
		Where("customer_email <> ''").
		Where("shipping_email_sent_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// LockForFulfillment takes a transaction-scoped advisory lock keyed on the
// order ID. Released automatically when the transaction ends. Must run inside
// a transaction or the lock is held for the connection's lifetime.
func (r *GormOrderRepository) LockForFulfillment(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", id.String()).Error
}
