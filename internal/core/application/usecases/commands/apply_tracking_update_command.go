package commands

import (
	"errors"
	"strings"

	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/pkg/errs"
	"phantomtrack/internal/pkg/guard"
)

var ErrApplyTrackingUpdateCommandIsNotConstructed = errors.New(
	"ApplyTrackingUpdateCommand must be created via NewApplyTrackingUpdateCommand constructor",
)

// ApplyTrackingUpdateCommand represents one inbound carrier tracking push,
// already parsed out of the webhook payload.
type ApplyTrackingUpdateCommand struct { //nolint:recvcheck //using for validation
	event shipping.TrackingEvent

	guard guard.ConstructorGuard
}

// NewApplyTrackingUpdateCommand creates a command from a parsed tracking
// event. The tracking number is required; the raw status may be empty, in
// which case the order keeps an UNKNOWN tracking status.
func NewApplyTrackingUpdateCommand(event shipping.TrackingEvent) (ApplyTrackingUpdateCommand, error) {
	cmd := ApplyTrackingUpdateCommand{
		guard: guard.NewConstructorGuard(),
	}

	if strings.TrimSpace(event.TrackingNumber) == "" {
		return ApplyTrackingUpdateCommand{}, errs.NewValueIsRequiredError("trackingNumber")
	}

	cmd.event = event
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrApplyTrackingUpdateCommandIsNotConstructed if validation fails.
func (c ApplyTrackingUpdateCommand) Validate() error {
	return c.guard.Validate(ErrApplyTrackingUpdateCommandIsNotConstructed)
}

// Event returns the parsed tracking event.
func (c ApplyTrackingUpdateCommand) Event() shipping.TrackingEvent {
	return c.event
}
