package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/simulation"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) GetByIntentRef(ctx context.Context, ref string) (*payment.Payment, error) {
	args := m.Called(ctx, ref)
	p, _ := args.Get(0).(*payment.Payment)
	return p, args.Error(1)
}

func (m *MockPaymentRepository) CountByOrder(ctx context.Context, orderID kernel.UUID) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(*payment.Payment)
	return p, args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryRepository) GetFirstAwaitingCourier(ctx context.Context) (*delivery.Delivery, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierRepository) GetByUserID(ctx context.Context, userID string) (*courier.Courier, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]*courier.Courier)
	return cs, args.Error(1)
}

type MockSimulationRepository struct{ mock.Mock }

func (m *MockSimulationRepository) Add(ctx context.Context, s *simulation.Simulation) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSimulationRepository) Update(ctx context.Context, s *simulation.Simulation) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSimulationRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*simulation.Simulation, error) {
	args := m.Called(ctx, orderID)
	s, _ := args.Get(0).(*simulation.Simulation)
	return s, args.Error(1)
}

func (m *MockSimulationRepository) GetAllActive(ctx context.Context) ([]*simulation.Simulation, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]*simulation.Simulation)
	return s, args.Error(1)
}

// MockUoW hands out the same repository mocks on every call.
type MockUoW struct {
	mock.Mock

	Orders      *MockOrderRepository
	Payments    *MockPaymentRepository
	Deliveries  *MockDeliveryRepository
	Couriers    *MockCourierRepository
	Simulations *MockSimulationRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		Orders:      new(MockOrderRepository),
		Payments:    new(MockPaymentRepository),
		Deliveries:  new(MockDeliveryRepository),
		Couriers:    new(MockCourierRepository),
		Simulations: new(MockSimulationRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Orders
}

func (m *MockUoW) PaymentRepository() ports.PaymentRepository {
	return m.Payments
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	return m.Deliveries
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	return m.Couriers
}

func (m *MockUoW) SimulationRepository() ports.SimulationRepository {
	return m.Simulations
}

func (m *MockUoW) AssertAll(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.Orders.AssertExpectations(t)
	m.Payments.AssertExpectations(t)
	m.Deliveries.AssertExpectations(t)
	m.Couriers.AssertExpectations(t)
	m.Simulations.AssertExpectations(t)
}

// expectTx registers a transaction that commits with commitErr. Rollback
// always runs from the deferred cleanup.
func (m *MockUoW) expectTx(commitErr error) {
	m.On("Begin", mock.Anything).Return(nil).Once()
	m.On("Commit", mock.Anything).Return(commitErr).Once()
	m.On("Rollback", mock.Anything).Return(nil).Maybe()
}

// expectAbortedTx registers a transaction that is rolled back without commit.
func (m *MockUoW) expectAbortedTx() {
	m.On("Begin", mock.Anything).Return(nil).Once()
	m.On("Rollback", mock.Anything).Return(nil).Once()
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

func factoryFor(uow commands.UoW) *MockUoWFactory {
	f := new(MockUoWFactory)
	f.On("Create").Return(uow)
	return f
}

type MockRestaurantClient struct{ mock.Mock }

func (m *MockRestaurantClient) GetRestaurant(ctx context.Context, id string) (ports.Restaurant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Restaurant), args.Error(1)
}

func (m *MockRestaurantClient) GetMenuItem(ctx context.Context, id string) (ports.MenuItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.MenuItem), args.Error(1)
}

// restaurantOwnedBy serves restaurant R1, the restaurant of every order
// fixture, owned by ownerID.
func restaurantOwnedBy(ownerID string) *MockRestaurantClient {
	r := new(MockRestaurantClient)
	loc := kernel.MustNewLocation(79.85, 6.90)
	r.On("GetRestaurant", mock.Anything, "R1").
		Return(ports.Restaurant{ID: "R1", Name: "Spice", OwnerID: ownerID, Location: &loc}, nil)
	return r
}

type MockCartClient struct{ mock.Mock }

func (m *MockCartClient) GetCartTotal(ctx context.Context, customerID string) (kernel.Money, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(kernel.Money), args.Error(1)
}

type MockIdentityClient struct{ mock.Mock }

func (m *MockIdentityClient) GetUser(ctx context.Context, id string) (ports.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.User), args.Error(1)
}

func (m *MockIdentityClient) UpdateUserRole(ctx context.Context, id string, role kernel.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, req ports.IntentRequest) (ports.PaymentIntent, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PaymentIntent), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, intentID string) error {
	return m.Called(ctx, intentID).Error(0)
}

func (m *MockPaymentGateway) ParseEvent(payload []byte, signature string) (ports.GatewayEvent, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(ports.GatewayEvent), args.Error(1)
}

type MockLocationReporter struct{ mock.Mock }

func (m *MockLocationReporter) Handle(ctx context.Context, cmd commands.ReportLocationCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func customer(id string) kernel.Actor {
	return kernel.Actor{ID: id, Role: kernel.RoleCustomer}
}

func admin() kernel.Actor {
	return kernel.Actor{ID: "A1", Role: kernel.RoleAdmin}
}

func orderIn(t *testing.T, customerID string, status order.Status) *order.Order {
	t.Helper()
	item, err := order.NewItem("M1", 2)
	require.NoError(t, err)
	loc := kernel.MustNewLocation(79.86, 6.91)
	address, err := order.NewAddress("12 Galle Road, Colombo", &loc)
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.PlaceOrderParams{
		ID:              kernel.NewUUID(),
		CustomerID:      customerID,
		RestaurantID:    "R1",
		Items:           []order.Item{item},
		TotalPrice:      kernel.MustNewMoney("1000"),
		DeliveryAddress: address,
		PaymentMethod:   order.PaymentMethodCard,
		CardReference:   "pm_card",
		PlacedAt:        fixedNow,
	}, status, fixedNow)
	require.NoError(t, err)
	return o
}

func paymentIn(t *testing.T, orderID kernel.UUID, status payment.Status) *payment.Payment {
	t.Helper()
	p, err := payment.RestorePayment(payment.NewPaymentParams{
		ID:           kernel.NewUUID(),
		OrderID:      orderID,
		CustomerID:   "C1",
		CartAmount:   kernel.MustNewMoney("1000"),
		DeliveryFee:  kernel.MustNewMoney("150"),
		Currency:     "lkr",
		IntentRef:    "pi_1",
		ClientSecret: "pi_1_secret",
		CreatedAt:    fixedNow,
	}, kernel.MustNewMoney("1150"), status, fixedNow)
	require.NoError(t, err)
	return p
}

func deliveryFor(t *testing.T, orderID kernel.UUID, courierID *kernel.UUID, status delivery.Status) *delivery.Delivery {
	t.Helper()
	var deliveredAt *time.Time
	if status == delivery.Delivered {
		deliveredAt = &fixedNow
	}
	d, err := delivery.RestoreDelivery(kernel.NewUUID(), orderID, "C1", courierID, status, deliveredAt, fixedNow, fixedNow)
	require.NoError(t, err)
	return d
}

func approvedCourier(t *testing.T, userID string, available bool, loc *kernel.Location) *courier.Courier {
	t.Helper()
	var locatedAt *time.Time
	if loc != nil {
		locatedAt = &fixedNow
	}
	c, err := courier.RestoreCourier(courier.RestoreParams{
		ID:             kernel.NewUUID(),
		UserID:         userID,
		Vehicle:        "bike",
		ApprovalStatus: courier.ApprovalApproved,
		Available:      available,
		Location:       loc,
		LocatedAt:      locatedAt,
		CreatedAt:      fixedNow,
	})
	require.NoError(t, err)
	return c
}
