package commands_test

import (
	"encoding/json"
	"testing"

	"phantomtrack/internal/core/application/usecases/commands"
	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApplyTrackingUpdateCommandHandler_Handle_UpdatesOrder(t *testing.T) {
	ctx := t.Context()
	aggregate := restoreOrder(t, func(s *order.Snapshot) {
		s.FulfillmentStatus = order.Shipped
		s.TrackingNumber = "1Z999AA10123456784"
		s.TrackingStatus = order.TrackingUnknown
	})

	cmd, err := commands.NewApplyTrackingUpdateCommand(shipping.TrackingEvent{
		TrackingNumber: "1Z999AA10123456784",
		RawStatus:      "In Transit",
		Details:        json.RawMessage(`{"status":"In Transit","location":"Memphis, TN"}`),
	})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetByTrackingNumber", mock.Anything, "1Z999AA10123456784").Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTrackingUpdateCommandHandler(factory, discardLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, "IN_TRANSIT", aggregate.TrackingStatus())
	assert.Equal(t, order.Shipped, aggregate.FulfillmentStatus())
	assert.JSONEq(t, `{"status":"In Transit","location":"Memphis, TN"}`, string(aggregate.TrackingStatusDetails()))
}

func TestApplyTrackingUpdateCommandHandler_Handle_UnknownTrackingNumberIsDropped(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewApplyTrackingUpdateCommand(shipping.TrackingEvent{
		TrackingNumber: "NOPE123",
		RawStatus:      "Delivered",
	})

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetByTrackingNumber", mock.Anything, "NOPE123").
			Return(nil, errs.NewObjectNotFoundError("order", "NOPE123")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTrackingUpdateCommandHandler(factory, discardLogger())
	require.NoError(t, h.Handle(ctx, cmd))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApplyTrackingUpdateCommandHandler_Handle_DeliveredLocksTrackingNumber(t *testing.T) {
	ctx := t.Context()
	aggregate := restoreOrder(t, func(s *order.Snapshot) {
		s.FulfillmentStatus = order.Delivered
		s.TrackingNumber = "1Z999AA10123456784"
		s.TrackingStatus = order.TrackingDelivered
	})

	cmd, _ := commands.NewApplyTrackingUpdateCommand(shipping.TrackingEvent{
		TrackingNumber: "OTHER-NUMBER",
		RawStatus:      "In Transit",
	})

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetByTrackingNumber", mock.Anything, "OTHER-NUMBER").Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTrackingUpdateCommandHandler(factory, discardLogger())
	err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrTrackingNumberLocked)
}

func TestNewApplyTrackingUpdateCommand_RequiresTrackingNumber(t *testing.T) {
	_, err := commands.NewApplyTrackingUpdateCommand(shipping.TrackingEvent{RawStatus: "Delivered"})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
