package commands

import (
	"context"
	"log/slog"

	"phantomtrack/internal/core/ports"
)

// UpdateTrackingCommandHandler handles manual tracking updates from the back
// office. When the update leaves the order shipped with a tracking number and
// the shipped email has not gone out yet, it is sent after the commit, same
// as for a purchased label.
type UpdateTrackingCommandHandler struct {
	uowFactory OrderUoWFactory
	mailer     ports.Mailer
	composer   NotificationComposer
	logger     *slog.Logger
}

// NewUpdateTrackingCommandHandler creates a handler for manual tracking
// updates.
func NewUpdateTrackingCommandHandler(
	uowFactory OrderUoWFactory,
	mailer ports.Mailer,
	composer NotificationComposer,
	logger *slog.Logger,
) UpdateTrackingCommandHandler {
	return UpdateTrackingCommandHandler{
		uowFactory: uowFactory,
		mailer:     mailer,
		composer:   composer,
		logger:     logger,
	}
}

// Handle processes the manual tracking update.
func (h *UpdateTrackingCommandHandler) Handle(ctx context.Context, cmd UpdateTrackingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.SetManualTracking(
		cmd.TrackingNumber(), cmd.Carrier(), cmd.TrackingURL(), cmd.Status(),
	); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = sendShippingNotification(ctx, h.uowFactory, h.mailer, h.composer, cmd.OrderID()); err != nil {
		h.logger.WarnContext(ctx, "shipping notification failed",
			"order_id", cmd.OrderID().String(), "error", err)
	}

	return nil
}
