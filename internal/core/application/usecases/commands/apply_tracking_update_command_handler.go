package commands

import (
	"context"
	"errors"
	"log/slog"

	"phantomtrack/internal/pkg/errs"
)

// ApplyTrackingUpdateCommandHandler handles inbound carrier tracking pushes.
// Looks the order up by tracking number and applies the mapped status.
//
// A push for a tracking number no order carries is dropped without error.
// The carrier retries on non-2xx responses, and an unknown number will stay
// unknown no matter how many times it is retried.
type ApplyTrackingUpdateCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *slog.Logger
}

// NewApplyTrackingUpdateCommandHandler creates a handler for tracking pushes.
func NewApplyTrackingUpdateCommandHandler(uowFactory OrderUoWFactory, logger *slog.Logger) ApplyTrackingUpdateCommandHandler {
	return ApplyTrackingUpdateCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Handle processes one tracking push.
func (h *ApplyTrackingUpdateCommandHandler) Handle(ctx context.Context, cmd ApplyTrackingUpdateCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	event := cmd.Event()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByTrackingNumber(ctx, event.TrackingNumber)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			h.logger.InfoContext(ctx, "tracking push for unknown tracking number dropped",
				"tracking_number", event.TrackingNumber)
			return nil
		}
		return err
	}

	if err = aggregate.ApplyTrackingUpdate(event); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
