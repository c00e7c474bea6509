package commands

import (
	"context"
	"log/slog"

	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/core/domain/services"
	"phantomtrack/internal/core/ports"
)

// CreateLabelCommandHandler handles the business logic for label purchase.
// Resolves the destination address, quotes rates with the shipping provider,
// and buys the cheapest rate that the provider will actually sell, walking up
// the price list on per-rate failures.
//
// Example:
//
//	handler := NewCreateLabelCommandHandler(
//	    uowFactory, carrier, checkout, mailer, composer, selector,
//	    origin, parcel, logger,
//	)
//	cmd, _ := NewCreateLabelCommand(orderID)
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("label purchase failed: %w", err)
//	}
//	// result carries the tracking number, carrier, and label URL
type CreateLabelCommandHandler struct {
	uowFactory OrderUoWFactory
	carrier    ports.CarrierClient
	checkout   ports.CheckoutGateway
	mailer     ports.Mailer
	composer   NotificationComposer
	selector   services.RateSelector
	origin     shipping.Address
	parcel     shipping.Parcel
	logger     *slog.Logger
}

// CreateLabelResult is the outcome of a successful label purchase, returned
// so callers can show the tracking details without a second read.
type CreateLabelResult struct {
	TrackingNumber string
	Carrier        string
	TrackingURL    string
	LabelURL       string
	RateAmount     float64
	RateCurrency   string
}

// NewCreateLabelCommandHandler creates a handler for label purchase
// operations. The origin address and parcel dimensions come from service
// configuration and are assumed validated at startup.
func NewCreateLabelCommandHandler(
	uowFactory OrderUoWFactory,
	carrier ports.CarrierClient,
	checkout ports.CheckoutGateway,
	mailer ports.Mailer,
	composer NotificationComposer,
	selector services.RateSelector,
	origin shipping.Address,
	parcel shipping.Parcel,
	logger *slog.Logger,
) CreateLabelCommandHandler {
	return CreateLabelCommandHandler{
		uowFactory: uowFactory,
		carrier:    carrier,
		checkout:   checkout,
		mailer:     mailer,
		composer:   composer,
		selector:   selector,
		origin:     origin,
		parcel:     parcel,
		logger:     logger,
	}
}

// Handle processes the label purchase command.
//
// The order row is locked for the duration of the transaction so that
// concurrent purchase attempts for the same order serialize; the loser of the
// race finds the order already shipped and stops. Destination resolution
// prefers the checkout session's shipping address, then its customer address,
// then the address saved on the order. The purchase loop tries candidate
// rates cheapest first and stops at the first rate the provider sells.
func (h *CreateLabelCommandHandler) Handle(ctx context.Context, cmd CreateLabelCommand) (CreateLabelResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateLabelResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateLabelResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if err := orderRepo.LockForFulfillment(ctx, cmd.OrderID()); err != nil {
		return CreateLabelResult{}, err
	}

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return CreateLabelResult{}, err
	}

	if aggregate.LabelURL() != "" && aggregate.TrackingNumber() != "" {
		return CreateLabelResult{}, ErrLabelAlreadyPurchased
	}

	destination, err := h.resolveDestination(ctx, aggregate)
	if err != nil {
		return CreateLabelResult{}, err
	}

	shipmentRef, rates, err := h.carrier.CreateShipment(ctx, shipping.Shipment{
		From:   h.origin,
		To:     *destination,
		Parcel: h.parcel,
	})
	if err != nil {
		return CreateLabelResult{}, err
	}
	if len(rates) == 0 {
		return CreateLabelResult{}, ErrNoRatesAvailable
	}

	purchased, tx, attemptErr := h.purchaseCheapest(ctx, aggregate.Ref(), h.selector.Candidates(rates))
	if attemptErr != nil {
		return CreateLabelResult{}, attemptErr
	}

	if err = aggregate.MarkShipped(shipmentRef, tx, purchased); err != nil {
		return CreateLabelResult{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return CreateLabelResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateLabelResult{}, err
	}

	h.notifyShipped(ctx, cmd)

	return CreateLabelResult{
		TrackingNumber: tx.TrackingNumber,
		Carrier:        aggregate.TrackingCarrier(),
		TrackingURL:    tx.TrackingURL,
		LabelURL:       tx.LabelURL,
		RateAmount:     purchased.Amount,
		RateCurrency:   purchased.Currency,
	}, nil
}

// resolveDestination picks and validates the ship-to address. The checkout
// session lookup is best effort when the order already carries an address;
// without any fallback a session failure is fatal.
func (h *CreateLabelCommandHandler) resolveDestination(
	ctx context.Context, aggregate *order.Order,
) (*shipping.Address, error) {
	var sessionShipping, sessionCustomer *shipping.Address

	session, err := h.checkout.RetrieveSession(ctx, aggregate.CheckoutSessionRef())
	if err != nil {
		if aggregate.ShippingAddress() == nil {
			return nil, err
		}
		h.logger.WarnContext(ctx, "checkout session lookup failed, using saved address",
			"order", aggregate.Ref(), "error", err)
	} else {
		sessionShipping = session.Facts.ShippingAddress
		sessionCustomer = session.CustomerAddress
	}

	destination := shipping.PickDestination(sessionShipping, sessionCustomer, aggregate.ShippingAddress())
	if destination == nil {
		destination = &shipping.Address{}
	}

	if err = destination.ValidateComplete(); err != nil {
		return nil, err
	}

	return destination, nil
}

// purchaseCheapest walks the candidate rates in price order and buys the
// first one the provider accepts. Per-rate failures are collected; only when
// every candidate fails does the whole purchase fail.
func (h *CreateLabelCommandHandler) purchaseCheapest(
	ctx context.Context, orderRef string, candidates []shipping.Rate,
) (shipping.Rate, *shipping.Transaction, error) {
	var attempts []shipping.AttemptFailure

	for _, rate := range candidates {
		tx, err := h.carrier.PurchaseLabel(ctx, rate.ObjectID)
		if err != nil {
			h.logger.WarnContext(ctx, "label purchase call failed",
				"order", orderRef, "provider", rate.Provider, "error", err)
			attempts = append(attempts, shipping.AttemptFailure{
				Provider:     rate.Provider,
				ServiceLevel: rate.ServiceLevel,
				Amount:       rate.Amount,
				Currency:     rate.Currency,
				Status:       "REQUEST_FAILED",
				Messages:     []shipping.TransactionMessage{{Text: err.Error()}},
			})
			continue
		}

		if tx.Succeeded() && tx.LabelURL != "" {
			return rate, &tx, nil
		}

		if tx.IsCarrierRegistrationFailure() {
			h.logger.WarnContext(ctx, "carrier account not registered for rate",
				"order", orderRef, "provider", rate.Provider)
		}

		attempts = append(attempts, shipping.AttemptFailure{
			Provider:     rate.Provider,
			ServiceLevel: rate.ServiceLevel,
			Amount:       rate.Amount,
			Currency:     rate.Currency,
			Status:       tx.Status,
			Messages:     tx.Messages,
		})
	}

	return shipping.Rate{}, nil, NewLabelPurchaseError(attempts)
}

// notifyShipped sends the shipped email after the purchase transaction has
// committed. Delivery problems never fail the purchase; the retry job picks
// up orders whose notification did not go out.
func (h *CreateLabelCommandHandler) notifyShipped(ctx context.Context, cmd CreateLabelCommand) {
	if err := sendShippingNotification(ctx, h.uowFactory, h.mailer, h.composer, cmd.OrderID()); err != nil {
		h.logger.WarnContext(ctx, "shipping notification failed",
			"order_id", cmd.OrderID().String(), "error", err)
	}
}
