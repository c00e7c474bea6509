package commands_test

import (
	"context"
	"testing"
	"time"

	"phantomtrack/internal/core/application/usecases/commands"
	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByCheckoutSessionRef(ctx context.Context, sessionRef string) (*order.Order, error) {
	args := m.Called(ctx, sessionRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*order.Order, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetShippedUnnotified(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) LockForFulfillment(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCarrierClient struct{ mock.Mock }

func (m *MockCarrierClient) CreateShipment(ctx context.Context, shipment shipping.Shipment) (string, []shipping.Rate, error) {
	args := m.Called(ctx, shipment)
	var rates []shipping.Rate
	if args.Get(1) != nil {
		rates = args.Get(1).([]shipping.Rate)
	}
	return args.String(0), rates, args.Error(2)
}

func (m *MockCarrierClient) PurchaseLabel(ctx context.Context, rateObjectID string) (shipping.Transaction, error) {
	args := m.Called(ctx, rateObjectID)
	return args.Get(0).(shipping.Transaction), args.Error(1)
}

type MockCheckoutGateway struct{ mock.Mock }

func (m *MockCheckoutGateway) RetrieveSession(ctx context.Context, sessionRef string) (ports.CheckoutSessionFacts, error) {
	args := m.Called(ctx, sessionRef)
	return args.Get(0).(ports.CheckoutSessionFacts), args.Error(1)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, mail ports.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

// restoreOrder builds an order aggregate in a known state for handler tests.
func restoreOrder(t *testing.T, mutate func(*order.Snapshot)) *order.Order {
	t.Helper()

	snapshot := order.Snapshot{
		ID:                 kernel.NewUUID(),
		UserID:             "user-1",
		CheckoutSessionRef: "cs_test_123",
		PaymentStatus:      "paid",
		AmountTotalCents:   4599,
		Currency:           "usd",
		CustomerEmail:      "jamie@example.com",
		ShippingName:       "Jamie Rivera",
		ShippingAddress: &shipping.Address{
			Name:       "Jamie Rivera",
			Line1:      "100 Elm St",
			City:       "Austin",
			State:      "TX",
			PostalCode: "78701",
			Country:    "US",
		},
		FulfillmentStatus: order.Processing,
		CreatedAt:         time.Now().UTC(),
	}
	if mutate != nil {
		mutate(&snapshot)
	}

	aggregate, err := order.RestoreOrder(snapshot)
	require.NoError(t, err)
	return aggregate
}
