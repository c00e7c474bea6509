package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/ports"
	"phantomtrack/internal/pkg/errs"
)

// ErrCheckoutSessionNotPaid means the checkout session has not completed
// payment yet. Only paid sessions become order records.
var ErrCheckoutSessionNotPaid = errors.New("checkout session is not paid")

// ErrCheckoutSessionNotOwned means the session was created for a different
// user than the one the caller claims. Session references appear in redirect
// URLs, so possession of one is not proof of ownership.
var ErrCheckoutSessionNotOwned = errors.New("checkout session does not belong to this user")

// SyncOrderCommandHandler handles the business logic for checkout-to-order
// sync. Pulls the session facts from the payment processor, upserts the
// order keyed by session reference, and sends the confirmation email once.
type SyncOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	checkout   ports.CheckoutGateway
	mailer     ports.Mailer
	composer   NotificationComposer
	logger     *slog.Logger
}

// NewSyncOrderCommandHandler creates a handler for checkout sync operations.
func NewSyncOrderCommandHandler(
	uowFactory OrderUoWFactory,
	checkout ports.CheckoutGateway,
	mailer ports.Mailer,
	composer NotificationComposer,
	logger *slog.Logger,
) SyncOrderCommandHandler {
	return SyncOrderCommandHandler{
		uowFactory: uowFactory,
		checkout:   checkout,
		mailer:     mailer,
		composer:   composer,
		logger:     logger,
	}
}

// Handle processes the sync command. Syncing the same session twice updates
// the existing record instead of duplicating it, and later syncs never blank
// out facts an earlier sync already filled.
func (h *SyncOrderCommandHandler) Handle(ctx context.Context, cmd SyncOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	session, err := h.checkout.RetrieveSession(ctx, cmd.SessionRef())
	if err != nil {
		return err
	}
	if session.Facts.PaymentStatus != "paid" {
		return ErrCheckoutSessionNotPaid
	}

	userID := cmd.UserID()
	switch {
	case userID == "":
		userID = session.ClientReferenceID
	case session.ClientReferenceID != "" && session.ClientReferenceID != userID:
		return ErrCheckoutSessionNotOwned
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByCheckoutSessionRef(ctx, cmd.SessionRef())

	switch {
	case err == nil:
		aggregate.ApplyCheckoutFacts(session.Facts)
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		if aggregate, err = order.NewOrder(kernel.NewUUID(), userID, cmd.SessionRef()); err != nil {
			return err
		}
		aggregate.ApplyCheckoutFacts(session.Facts)
		if err = orderRepo.Add(ctx, aggregate); err != nil {
			return err
		}
	default:
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyConfirmed(ctx, aggregate.ID())
	return nil
}

// notifyConfirmed sends the order-confirmation email after the sync has
// committed. Delivery problems are logged and swallowed.
func (h *SyncOrderCommandHandler) notifyConfirmed(ctx context.Context, orderID kernel.UUID) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.WarnContext(ctx, "confirmation notification skipped", "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		h.logger.WarnContext(ctx, "confirmation notification skipped", "error", err)
		return
	}

	if !aggregate.NeedsConfirmationNotification() {
		return
	}

	if err = h.mailer.Send(ctx, h.composer.ConfirmationMail(aggregate)); err != nil {
		h.logger.WarnContext(ctx, "confirmation notification failed",
			"order", aggregate.Ref(), "error", err)
		return
	}

	aggregate.MarkConfirmationNotified(time.Now())
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		h.logger.WarnContext(ctx, "confirmation notification state not recorded",
			"order", aggregate.Ref(), "error", err)
		return
	}

	if err = uow.Commit(ctx); err != nil {
		h.logger.WarnContext(ctx, "confirmation notification state not recorded",
			"order", aggregate.Ref(), "error", err)
	}
}
