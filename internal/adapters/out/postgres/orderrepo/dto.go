// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/domain/model/shipping"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Address, line item, and tracking detail blobs are stored as jsonb so the
// read side can serve them without re-mapping. The checkout session reference
// carries a unique index: one session, one order.
type OrderDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID             string
	CheckoutSessionRef string `gorm:"uniqueIndex"`
	PaymentCustomerRef string
	PaymentStatus      string
	AmountTotalCents   int64
	Currency           string

	CustomerEmail   string `gorm:"index"`
	ShippingName    string
	ShippingPhone   string
	ShippingAddress []byte `gorm:"type:jsonb"`
	LineItems       []byte `gorm:"type:jsonb"`

	ShipmentRef           string
	LabelTransactionRef   string
	TrackingNumber        string `gorm:"index"`
	TrackingCarrier       string
	TrackingURL           string
	LabelURL              string
	FulfillmentStatus     string `gorm:"index"`
	TrackingStatus        string
	TrackingStatusDetails []byte `gorm:"type:jsonb"`

	ConfirmationEmailSentAt *time.Time
	ShippingEmailSentAt     *time.Time
	CreatedAt               time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	s := aggregate.Snapshot()

	var shippingAddress []byte
	if s.ShippingAddress != nil {
		raw, err := json.Marshal(s.ShippingAddress)
		if err != nil {
			return OrderDTO{}, err
		}
		shippingAddress = raw
	}

	var lineItems []byte
	if len(s.LineItems) > 0 {
		raw, err := json.Marshal(s.LineItems)
		if err != nil {
			return OrderDTO{}, err
		}
		lineItems = raw
	}

	return OrderDTO{
		ID:                 s.ID.Bytes(),
		UserID:             s.UserID,
		CheckoutSessionRef: s.CheckoutSessionRef,
		PaymentCustomerRef: s.PaymentCustomerRef,
		PaymentStatus:      s.PaymentStatus,
		AmountTotalCents:   s.AmountTotalCents,
		Currency:           s.Currency,

		CustomerEmail:   s.CustomerEmail,
		ShippingName:    s.ShippingName,
		ShippingPhone:   s.ShippingPhone,
		ShippingAddress: shippingAddress,
		LineItems:       lineItems,

		ShipmentRef:           s.ShipmentRef,
		LabelTransactionRef:   s.LabelTransactionRef,
		TrackingNumber:        s.TrackingNumber,
		TrackingCarrier:       s.TrackingCarrier,
		TrackingURL:           s.TrackingURL,
		LabelURL:              s.LabelURL,
		FulfillmentStatus:     string(s.FulfillmentStatus),
		TrackingStatus:        s.TrackingStatus,
		TrackingStatusDetails: s.TrackingStatusDetails,

		ConfirmationEmailSentAt: s.ConfirmationEmailSentAt,
		ShippingEmailSentAt:     s.ShippingEmailSentAt,
		CreatedAt:               s.CreatedAt,
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var shippingAddress *shipping.Address
	if len(dto.ShippingAddress) > 0 {
		shippingAddress = &shipping.Address{}
		if err = json.Unmarshal(dto.ShippingAddress, shippingAddress); err != nil {
			return nil, err
		}
	}

	var lineItems []order.LineItem
	if len(dto.LineItems) > 0 {
		if err = json.Unmarshal(dto.LineItems, &lineItems); err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 id,
		UserID:             dto.UserID,
		CheckoutSessionRef: dto.CheckoutSessionRef,
		PaymentCustomerRef: dto.PaymentCustomerRef,
		PaymentStatus:      dto.PaymentStatus,
		AmountTotalCents:   dto.AmountTotalCents,
		Currency:           dto.Currency,

		CustomerEmail:   dto.CustomerEmail,
		ShippingName:    dto.ShippingName,
		ShippingPhone:   dto.ShippingPhone,
		ShippingAddress: shippingAddress,
		LineItems:       lineItems,

		ShipmentRef:           dto.ShipmentRef,
		LabelTransactionRef:   dto.LabelTransactionRef,
		TrackingNumber:        dto.TrackingNumber,
		TrackingCarrier:       dto.TrackingCarrier,
		TrackingURL:           dto.TrackingURL,
		LabelURL:              dto.LabelURL,
		FulfillmentStatus:     order.FulfillmentStatus(dto.FulfillmentStatus),
		TrackingStatus:        dto.TrackingStatus,
		TrackingStatusDetails: dto.TrackingStatusDetails,

		ConfirmationEmailSentAt: dto.ConfirmationEmailSentAt,
		ShippingEmailSentAt:     dto.ShippingEmailSentAt,
		CreatedAt:               dto.CreatedAt,
	})
}
