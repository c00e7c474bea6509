package commands

import (
	"errors"
	"strings"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/pkg/guard"
)

var ErrUpdateTrackingCommandIsNotConstructed = errors.New(
	"UpdateTrackingCommand must be created via NewUpdateTrackingCommand constructor",
)

// UpdateTrackingCommand represents an operator's hand-entered tracking update
// for an order: tracking fields plus the fulfillment status to set. Used from
// the back office when a label was bought outside the system or a status
// needs correcting.
type UpdateTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	trackingNumber string
	carrier        string
	trackingURL    string
	status         order.FulfillmentStatus

	guard guard.ConstructorGuard
}

// NewUpdateTrackingCommand creates a manual tracking update command.
// The order ID and a recognized fulfillment status are required; tracking
// fields may be empty, which clears them on the order.
func NewUpdateTrackingCommand(
	orderID kernel.UUID,
	trackingNumber, carrier, trackingURL string,
	status order.FulfillmentStatus,
) (UpdateTrackingCommand, error) {
	cmd := UpdateTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		status.Validate(),
	); err != nil {
		return UpdateTrackingCommand{}, err
	}

	cmd.orderID = orderID
	cmd.trackingNumber = strings.TrimSpace(trackingNumber)
	cmd.carrier = strings.TrimSpace(carrier)
	cmd.trackingURL = strings.TrimSpace(trackingURL)
	cmd.status = status
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateTrackingCommandIsNotConstructed if validation fails.
func (c UpdateTrackingCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTrackingCommandIsNotConstructed)
}

// OrderID returns the order to update.
func (c UpdateTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TrackingNumber returns the hand-entered tracking number, possibly empty.
func (c UpdateTrackingCommand) TrackingNumber() string {
	return c.trackingNumber
}

// Carrier returns the hand-entered carrier name, possibly empty.
func (c UpdateTrackingCommand) Carrier() string {
	return c.carrier
}

// TrackingURL returns the hand-entered tracking link, possibly empty.
func (c UpdateTrackingCommand) TrackingURL() string {
	return c.trackingURL
}

// Status returns the fulfillment status to set.
func (c UpdateTrackingCommand) Status() order.FulfillmentStatus {
	return c.status
}
