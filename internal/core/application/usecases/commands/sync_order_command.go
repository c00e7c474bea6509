package commands

import (
	"errors"
	"strings"

	"phantomtrack/internal/pkg/errs"
	"phantomtrack/internal/pkg/guard"
)

var ErrSyncOrderCommandIsNotConstructed = errors.New(
	"SyncOrderCommand must be created via NewSyncOrderCommand constructor",
)

// SyncOrderCommand represents a request to materialize a paid checkout
// session as an order record, or refresh the record if one already exists
// for the session. Used both by the storefront's post-checkout callback and
// by the payment processor's webhook.
type SyncOrderCommand struct { //nolint:recvcheck //using for validation
	sessionRef string
	userID     string

	guard guard.ConstructorGuard
}

// NewSyncOrderCommand creates a command to sync the checkout session into an
// order. The session reference is required; the user ID is optional and only
// recorded on first sync (guest checkouts have none).
func NewSyncOrderCommand(sessionRef, userID string) (SyncOrderCommand, error) {
	cmd := SyncOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSessionRef(sessionRef); err != nil {
		return SyncOrderCommand{}, err
	}

	cmd.userID = strings.TrimSpace(userID)
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSyncOrderCommandIsNotConstructed if validation fails.
func (c SyncOrderCommand) Validate() error {
	return c.guard.Validate(ErrSyncOrderCommandIsNotConstructed)
}

// SessionRef returns the checkout session reference to sync.
func (c SyncOrderCommand) SessionRef() string {
	return c.sessionRef
}

// UserID returns the storefront account that completed the checkout, if any.
func (c SyncOrderCommand) UserID() string {
	return c.userID
}

func (c *SyncOrderCommand) setSessionRef(sessionRef string) error {
	sessionRef = strings.TrimSpace(sessionRef)
	if sessionRef == "" {
		return errs.NewValueIsRequiredError("sessionRef")
	}

	c.sessionRef = sessionRef
	return nil
}
