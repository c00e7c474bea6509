package commands

import (
	"errors"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/pkg/guard"
)

var ErrCreateLabelCommandIsNotConstructed = errors.New(
	"CreateLabelCommand must be created via NewCreateLabelCommand constructor",
)

// CreateLabelCommand represents a request to purchase a shipping label for a
// paid order. Quoting, rate selection, and purchase happen in the handler;
// the command only identifies the order.
//
// Example:
//
//	orderID, _ := kernel.UUIDFromString(rawID)
//	cmd, err := NewCreateLabelCommand(orderID)
//	if err != nil {
//	    return fmt.Errorf("invalid label request: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type CreateLabelCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateLabelCommand creates a command to purchase a label for the order.
// Validates that the order ID is a proper non-nil UUID.
func NewCreateLabelCommand(orderID kernel.UUID) (CreateLabelCommand, error) {
	cmd := CreateLabelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return CreateLabelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateLabelCommandIsNotConstructed if validation fails.
func (c CreateLabelCommand) Validate() error {
	return c.guard.Validate(ErrCreateLabelCommandIsNotConstructed)
}

// OrderID returns the unique identifier of the order to ship.
func (c CreateLabelCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *CreateLabelCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
