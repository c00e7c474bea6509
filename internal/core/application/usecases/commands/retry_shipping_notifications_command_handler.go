package commands

import (
	"context"
	"log/slog"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/ports"
)

// notificationBatchSize bounds one sweep so a long backlog never holds a
// read transaction open while emails go out.
const notificationBatchSize = 20

// RetryShippingNotificationsCommandHandler sweeps shipped orders that still
// owe the customer a shipped email and sends it. Each send runs in its own
// transaction; one failing order does not block the rest of the batch.
type RetryShippingNotificationsCommandHandler struct {
	uowFactory OrderUoWFactory
	mailer     ports.Mailer
	composer   NotificationComposer
	logger     *slog.Logger
}

// NewRetryShippingNotificationsCommandHandler creates a handler for the
// notification sweep.
func NewRetryShippingNotificationsCommandHandler(
	uowFactory OrderUoWFactory,
	mailer ports.Mailer,
	composer NotificationComposer,
	logger *slog.Logger,
) RetryShippingNotificationsCommandHandler {
	return RetryShippingNotificationsCommandHandler{
		uowFactory: uowFactory,
		mailer:     mailer,
		composer:   composer,
		logger:     logger,
	}
}

// Handle runs one sweep. Returns an error only when the backlog itself
// cannot be read; per-order send failures are logged and left for the next
// sweep.
func (h *RetryShippingNotificationsCommandHandler) Handle(ctx context.Context, cmd RetryShippingNotificationsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orderIDs, err := h.listUnnotified(ctx)
	if err != nil {
		return err
	}

	for _, orderID := range orderIDs {
		if err = sendShippingNotification(ctx, h.uowFactory, h.mailer, h.composer, orderID); err != nil {
			h.logger.WarnContext(ctx, "Shipped notification retry failed",
				"order_id", orderID.String(), "error", err)
		}
	}

	return nil
}

func (h *RetryShippingNotificationsCommandHandler) listUnnotified(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetShippedUnnotified(ctx, notificationBatchSize)
	if err != nil {
		return nil, err
	}

	orderIDs := make([]kernel.UUID, 0, len(orders))
	for _, aggregate := range orders {
		orderIDs = append(orderIDs, aggregate.ID())
	}
	return orderIDs, nil
}
