package commands

import (
	"context"
	"time"

	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/ports"
)

// sendShippingNotification loads the order, sends the shipped email if it is
// still owed, and records the send. The notification timestamp makes the
// operation idempotent, so the label purchase flow, the manual tracking
// update flow, and the retry job can all call it without coordinating.
func sendShippingNotification(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	mailer ports.Mailer,
	composer NotificationComposer,
	orderID kernel.UUID,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if !aggregate.NeedsShippingNotification() {
		return nil
	}

	if err = mailer.Send(ctx, composer.ShippingMail(aggregate)); err != nil {
		return err
	}

	aggregate.MarkShippingNotified(time.Now())
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
