package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order row for the back-office detail view.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ErrObjectNotFound when no order
// has the given identifier.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			checkout_session_ref,
			payment_status,
			amount_total_cents,
			currency,
			customer_email,
			shipping_name,
			shipping_phone,
			shipping_address,
			line_items,
			tracking_number,
			tracking_carrier,
			tracking_url,
			label_url,
			fulfillment_status,
			tracking_status,
			tracking_status_details,
			created_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var resp GetOrderQueryResponse
	var id uuid.UUID
	var shippingAddress, lineItems, trackingDetails sql.NullString
	var createdAt time.Time

	err := row.Scan(
		&id,
		&resp.UserID,
		&resp.CheckoutSessionRef,
		&resp.PaymentStatus,
		&resp.AmountTotalCents,
		&resp.Currency,
		&resp.CustomerEmail,
		&resp.ShippingName,
		&resp.ShippingPhone,
		&shippingAddress,
		&lineItems,
		&resp.TrackingNumber,
		&resp.TrackingCarrier,
		&resp.TrackingURL,
		&resp.LabelURL,
		&resp.FulfillmentStatus,
		&resp.TrackingStatus,
		&trackingDetails,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
		}
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID = orderID
	resp.Ref = orderID.ShortRef()
	resp.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	if shippingAddress.Valid {
		resp.ShippingAddress = []byte(shippingAddress.String)
	}
	if lineItems.Valid {
		resp.LineItems = []byte(lineItems.String)
	}
	if trackingDetails.Valid {
		resp.TrackingStatusDetails = []byte(trackingDetails.String)
	}

	return resp, nil
}
