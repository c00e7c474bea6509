package commands

import (
	"errors"

	"phantomtrack/internal/pkg/guard"
)

var ErrRetryShippingNotificationsCommandIsNotConstructed = errors.New(
	"RetryShippingNotificationsCommand must be created via NewRetryShippingNotificationsCommand constructor",
)

// RetryShippingNotificationsCommand triggers a sweep over shipped orders
// whose customer was never told about the shipment. A shipped email can be
// lost when the mail relay is down right after a label purchase; the sweep
// picks those orders up later.
type RetryShippingNotificationsCommand struct {
	guard guard.ConstructorGuard
}

// NewRetryShippingNotificationsCommand creates a new sweep command.
// This is a parameterless command; the handler decides the batch size.
func NewRetryShippingNotificationsCommand() RetryShippingNotificationsCommand {
	return RetryShippingNotificationsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrRetryShippingNotificationsCommandIsNotConstructed if validation fails.
func (c *RetryShippingNotificationsCommand) Validate() error {
	return c.guard.Validate(
		ErrRetryShippingNotificationsCommandIsNotConstructed,
	)
}
