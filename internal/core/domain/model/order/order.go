package order

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrLabelNotPurchased is returned when MarkShipped is called with a
	// transaction that did not produce a label.
	ErrLabelNotPurchased = errors.New("transaction did not produce a label")

	// ErrTrackingNumberLocked is returned when a tracking update would
	// replace the tracking number of an order whose delivery is already
	// confirmed.
	ErrTrackingNumberLocked = errors.New("tracking number cannot change after delivery confirmation")
)

// LineItem is one purchased line of the order, copied from the checkout
// session at sync time.
type LineItem struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	AmountCents int64  `json:"amount_cents"`
}

// Order is the aggregate root representing one completed payment, enriched
// over its lifetime with shipping and tracking facts. It is created when a
// paid checkout session is synced, gains label and tracking fields when a
// label is purchased, and is refined by inbound carrier pushes.
//
// Invariants:
//   - label URL is set if and only if a label purchase succeeded
//   - the tracking number never changes once delivery is confirmed
//   - each notification email is sent at most once (timestamp guards)
type Order struct {
	id                 kernel.UUID
	userID             string
	checkoutSessionRef string
	paymentCustomerRef string
	paymentStatus      string
	amountTotalCents   int64
	currency           string

	customerEmail   string
	shippingName    string
	shippingPhone   string
	shippingAddress *shipping.Address
	lineItems       []LineItem

	shipmentRef           string
	labelTransactionRef   string
	trackingNumber        string
	trackingCarrier       string
	trackingURL           string
	labelURL              string
	fulfillmentStatus     FulfillmentStatus
	trackingStatus        string
	trackingStatusDetails json.RawMessage

	confirmationEmailSentAt *time.Time
	shippingEmailSentAt     *time.Time
	createdAt               time.Time

	isConstructed bool
}

// CheckoutFacts are the paid-order facts extracted from a checkout session,
// applied on sync and on the payment-processor webhook.
type CheckoutFacts struct {
	PaymentCustomerRef string
	PaymentStatus      string
	AmountTotalCents   int64
	Currency           string
	CustomerEmail      string
	ShippingName       string
	ShippingPhone      string
	ShippingAddress    *shipping.Address
	LineItems          []LineItem
	CreatedAt          time.Time
}

// NewOrder creates an order for a paid checkout session. The id and the
// checkout-session reference are required; everything else arrives through
// ApplyCheckoutFacts.
func NewOrder(id kernel.UUID, userID, checkoutSessionRef string) (*Order, error) {
	o := &Order{
		fulfillmentStatus: Processing,
		createdAt:         time.Now().UTC(),
		isConstructed:     true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCheckoutSessionRef(checkoutSessionRef),
	); err != nil {
		return nil, err
	}

	o.userID = strings.TrimSpace(userID)
	return o, nil
}

// Snapshot is the flat representation of an order used to move it across the
// persistence boundary.
type Snapshot struct {
	ID                 kernel.UUID
	UserID             string
	CheckoutSessionRef string
	PaymentCustomerRef string
	PaymentStatus      string
	AmountTotalCents   int64
	Currency           string

	CustomerEmail   string
	ShippingName    string
	ShippingPhone   string
	ShippingAddress *shipping.Address
	LineItems       []LineItem

	ShipmentRef           string
	LabelTransactionRef   string
	TrackingNumber        string
	TrackingCarrier       string
	TrackingURL           string
	LabelURL              string
	FulfillmentStatus     FulfillmentStatus
	TrackingStatus        string
	TrackingStatusDetails json.RawMessage

	ConfirmationEmailSentAt *time.Time
	ShippingEmailSentAt     *time.Time
	CreatedAt               time.Time
}

// RestoreOrder reconstructs an order from its persisted snapshot. The id,
// session reference, and fulfillment status are validated; everything else is
// taken as stored.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := s.ID.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.CheckoutSessionRef) == "" {
		return nil, errs.NewValueIsRequiredError("checkoutSessionRef")
	}
	if err := s.FulfillmentStatus.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		id:                 s.ID,
		userID:             s.UserID,
		checkoutSessionRef: s.CheckoutSessionRef,
		paymentCustomerRef: s.PaymentCustomerRef,
		paymentStatus:      s.PaymentStatus,
		amountTotalCents:   s.AmountTotalCents,
		currency:           s.Currency,

		customerEmail:   s.CustomerEmail,
		shippingName:    s.ShippingName,
		shippingPhone:   s.ShippingPhone,
		shippingAddress: s.ShippingAddress,
		lineItems:       s.LineItems,

		shipmentRef:           s.ShipmentRef,
		labelTransactionRef:   s.LabelTransactionRef,
		trackingNumber:        s.TrackingNumber,
		trackingCarrier:       s.TrackingCarrier,
		trackingURL:           s.TrackingURL,
		labelURL:              s.LabelURL,
		fulfillmentStatus:     s.FulfillmentStatus,
		trackingStatus:        s.TrackingStatus,
		trackingStatusDetails: s.TrackingStatusDetails,

		confirmationEmailSentAt: s.ConfirmationEmailSentAt,
		shippingEmailSentAt:     s.ShippingEmailSentAt,
		createdAt:               s.CreatedAt,

		isConstructed: true,
	}, nil
}

// Snapshot returns the flat representation of the order for persistence.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                 o.id,
		UserID:             o.userID,
		CheckoutSessionRef: o.checkoutSessionRef,
		PaymentCustomerRef: o.paymentCustomerRef,
		PaymentStatus:      o.paymentStatus,
		AmountTotalCents:   o.amountTotalCents,
		Currency:           o.currency,

		CustomerEmail:   o.customerEmail,
		ShippingName:    o.shippingName,
		ShippingPhone:   o.shippingPhone,
		ShippingAddress: o.shippingAddress,
		LineItems:       o.lineItems,

		ShipmentRef:           o.shipmentRef,
		LabelTransactionRef:   o.labelTransactionRef,
		TrackingNumber:        o.trackingNumber,
		TrackingCarrier:       o.trackingCarrier,
		TrackingURL:           o.trackingURL,
		LabelURL:              o.labelURL,
		FulfillmentStatus:     o.fulfillmentStatus,
		TrackingStatus:        o.trackingStatus,
		TrackingStatusDetails: o.trackingStatusDetails,

		ConfirmationEmailSentAt: o.confirmationEmailSentAt,
		ShippingEmailSentAt:     o.shippingEmailSentAt,
		CreatedAt:               o.createdAt,
	}
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Ref returns the customer-facing short order reference.
func (o *Order) Ref() string {
	return o.id.ShortRef()
}

// UserID returns the opaque auth subject that placed the order.
func (o *Order) UserID() string {
	return o.userID
}

// CheckoutSessionRef returns the payment-session reference the order was
// created from. It is the upsert key for checkout syncs.
func (o *Order) CheckoutSessionRef() string {
	return o.checkoutSessionRef
}

// CustomerEmail returns the customer's email, if known.
func (o *Order) CustomerEmail() string {
	return o.customerEmail
}

// ShippingName returns the recipient name, if known.
func (o *Order) ShippingName() string {
	return o.shippingName
}

// ShippingPhone returns the recipient phone, if known.
func (o *Order) ShippingPhone() string {
	return o.shippingPhone
}

// ShippingAddress returns the saved destination address, or nil.
func (o *Order) ShippingAddress() *shipping.Address {
	return o.shippingAddress
}

// LineItems returns the purchased lines copied from checkout.
func (o *Order) LineItems() []LineItem {
	return o.lineItems
}

// AmountTotalCents returns the paid total in minor currency units.
func (o *Order) AmountTotalCents() int64 {
	return o.amountTotalCents
}

// Currency returns the payment currency code.
func (o *Order) Currency() string {
	return o.currency
}

// TrackingNumber returns the carrier tracking number, or "".
func (o *Order) TrackingNumber() string {
	return o.trackingNumber
}

// TrackingCarrier returns the carrier name recorded at label purchase.
func (o *Order) TrackingCarrier() string {
	return o.trackingCarrier
}

// TrackingURL returns the carrier tracking link, or "".
func (o *Order) TrackingURL() string {
	return o.trackingURL
}

// LabelURL returns the purchased label document URL, or "".
func (o *Order) LabelURL() string {
	return o.labelURL
}

// FulfillmentStatus returns the coarse lifecycle stage.
func (o *Order) FulfillmentStatus() FulfillmentStatus {
	return o.fulfillmentStatus
}

// TrackingStatus returns the fine-grained carrier-reported status.
func (o *Order) TrackingStatus() string {
	return o.trackingStatus
}

// TrackingStatusDetails returns the raw status-detail blob from the latest
// carrier push, or nil.
func (o *Order) TrackingStatusDetails() json.RawMessage {
	return o.trackingStatusDetails
}

// ShippingEmailSentAt returns when the shipped notification went out, or nil.
func (o *Order) ShippingEmailSentAt() *time.Time {
	return o.shippingEmailSentAt
}

// ConfirmationEmailSentAt returns when the order confirmation went out, or nil.
func (o *Order) ConfirmationEmailSentAt() *time.Time {
	return o.confirmationEmailSentAt
}

// CreatedAt returns the order's payment time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ApplyCheckoutFacts merges paid-order facts from the checkout session onto
// the order. Used on first sync and on webhook-driven re-syncs; later syncs
// do not blank out facts an earlier sync already filled.
func (o *Order) ApplyCheckoutFacts(facts CheckoutFacts) {
	if facts.PaymentCustomerRef != "" {
		o.paymentCustomerRef = facts.PaymentCustomerRef
	}
	if facts.PaymentStatus != "" {
		o.paymentStatus = facts.PaymentStatus
	}
	if facts.AmountTotalCents != 0 {
		o.amountTotalCents = facts.AmountTotalCents
	}
	if facts.Currency != "" {
		o.currency = facts.Currency
	}
	if facts.CustomerEmail != "" {
		o.customerEmail = facts.CustomerEmail
	}
	if facts.ShippingName != "" {
		o.shippingName = facts.ShippingName
	}
	if facts.ShippingPhone != "" {
		o.shippingPhone = facts.ShippingPhone
	}
	if facts.ShippingAddress != nil {
		o.shippingAddress = facts.ShippingAddress
	}
	if len(facts.LineItems) > 0 {
		o.lineItems = facts.LineItems
	}
	if !facts.CreatedAt.IsZero() {
		o.createdAt = facts.CreatedAt
	}
}

// SetShippingContact overrides the recipient name and phone (admin edit).
func (o *Order) SetShippingContact(name, phone string) {
	o.shippingName = strings.TrimSpace(name)
	o.shippingPhone = strings.TrimSpace(phone)
}

// SetShippingAddress overrides the saved destination address (admin edit).
func (o *Order) SetShippingAddress(addr *shipping.Address) {
	o.shippingAddress = addr
}

// MarkShipped records a successful label purchase: tracking number, carrier
// (the transaction's reported carrier wins over the rate's declared
// provider), tracking link, and label URL. The fulfillment status becomes
// "shipped" and the tracking status resets to UNKNOWN awaiting the next
// carrier push; any previous status-detail blob is cleared.
func (o *Order) MarkShipped(shipmentRef string, tx *shipping.Transaction, purchased shipping.Rate) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if tx == nil || !tx.Succeeded() || tx.LabelURL == "" {
		return ErrLabelNotPurchased
	}

	o.shipmentRef = shipmentRef
	o.labelTransactionRef = tx.ObjectID
	o.trackingNumber = tx.TrackingNumber
	o.trackingCarrier = tx.Carrier(purchased)
	o.trackingURL = tx.TrackingURL
	o.labelURL = tx.LabelURL
	o.fulfillmentStatus = Shipped
	o.trackingStatus = TrackingUnknown
	o.trackingStatusDetails = nil
	return nil
}

// ApplyTrackingUpdate refines the order from an inbound carrier push. The raw
// status is mapped through the carrier-status table; the push's status object
// replaces the status-detail blob. Once delivery is confirmed the tracking
// number is locked: a push that would replace it is rejected.
func (o *Order) ApplyTrackingUpdate(event shipping.TrackingEvent) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.fulfillmentStatus == Delivered &&
		o.trackingNumber != "" && o.trackingNumber != event.TrackingNumber {
		return ErrTrackingNumberLocked
	}

	trackingStatus, fulfillmentStatus := MapCarrierStatus(event.RawStatus)
	o.trackingNumber = event.TrackingNumber
	o.trackingStatus = trackingStatus
	o.fulfillmentStatus = fulfillmentStatus
	o.trackingStatusDetails = event.Details
	return nil
}

// SetManualTracking applies an admin's hand-entered tracking fields. Empty
// inputs clear the corresponding fields; the status is applied as given.
func (o *Order) SetManualTracking(number, carrier, url string, status FulfillmentStatus) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	o.trackingNumber = strings.TrimSpace(number)
	o.trackingCarrier = strings.TrimSpace(carrier)
	o.trackingURL = strings.TrimSpace(url)
	o.fulfillmentStatus = status
	return nil
}

// NeedsShippingNotification reports whether the shipped email should go out:
// the order is shipped with a tracking number, the customer email is known,
// and no shipped notification has been recorded yet.
func (o *Order) NeedsShippingNotification() bool {
	return o.fulfillmentStatus == Shipped &&
		o.trackingNumber != "" &&
		o.customerEmail != "" &&
		o.shippingEmailSentAt == nil
}

// MarkShippingNotified records the shipped-notification timestamp, the
// idempotency guard against duplicate emails.
func (o *Order) MarkShippingNotified(at time.Time) {
	t := at.UTC()
	o.shippingEmailSentAt = &t
}

// NeedsConfirmationNotification reports whether the order-confirmation email
// should go out.
func (o *Order) NeedsConfirmationNotification() bool {
	return o.customerEmail != "" && o.confirmationEmailSentAt == nil
}

// MarkConfirmationNotified records the order-confirmation timestamp.
func (o *Order) MarkConfirmationNotified(at time.Time) {
	t := at.UTC()
	o.confirmationEmailSentAt = &t
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCheckoutSessionRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("checkoutSessionRef")
	}
	o.checkoutSessionRef = ref
	return nil
}
