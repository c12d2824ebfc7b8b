package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAutoAssignCouriersCommandHandler_Handle_PicksNearest(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, "C1", order.Confirmed)
	d := deliveryFor(t, o.ID(), nil, delivery.Pending)
	pickup := kernel.MustNewLocation(79.86, 6.91)
	near := kernel.MustNewLocation(79.87, 6.92)
	far := kernel.MustNewLocation(80.5, 7.5)
	nearCourier := approvedCourier(t, "U1", true, &near)
	farCourier := approvedCourier(t, "U2", true, &far)

	restaurants := new(MockRestaurantClient)
	restaurants.On("GetRestaurant", ctx, "R1").Return(ports.Restaurant{ID: "R1", Location: &pickup}, nil).Once()

	uow := newMockUoW()
	uow.expectTx(nil)
	uow.Deliveries.On("GetFirstAwaitingCourier", ctx).Return(d, nil).Once()
	uow.Deliveries.On("Get", ctx, d.ID()).Return(d, nil).Once()
	uow.Deliveries.On("Update", ctx, d).Return(nil).Once()
	uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.Couriers.On("GetAllAvailable", ctx).Return([]*courier.Courier{farCourier, nearCourier}, nil).Once()
	uow.Couriers.On("Update", ctx, nearCourier).Return(nil).Once()

	h := commands.NewAutoAssignCouriersCommandHandler(factoryFor(uow), restaurants, services.NewCourierDispatcher())
	require.NoError(t, h.Handle(ctx, commands.NewAutoAssignCouriersCommand()))

	assert.True(t, d.CourierID().IsEqual(nearCourier.ID()))
	assert.Equal(t, delivery.Assigned, d.Status())
	assert.True(t, farCourier.IsAvailable())
	uow.AssertAll(t)
}

func TestAutoAssignCouriersCommandHandler_Handle_NothingWaiting(t *testing.T) {
	ctx := t.Context()
	uow := newMockUoW()
	uow.Deliveries.On("GetFirstAwaitingCourier", ctx).
		Return(nil, errs.NewObjectNotFoundError("delivery", "awaiting courier")).Once()

	restaurants := new(MockRestaurantClient)
	h := commands.NewAutoAssignCouriersCommandHandler(factoryFor(uow), restaurants, services.NewCourierDispatcher())

	require.NoError(t, h.Handle(ctx, commands.NewAutoAssignCouriersCommand()))
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestAutoAssignCouriersCommandHandler_Handle_NoLocatedCourier(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, "C1", order.Preparing)
	d := deliveryFor(t, o.ID(), nil, delivery.Pending)
	pickup := kernel.MustNewLocation(79.86, 6.91)

	restaurants := new(MockRestaurantClient)
	restaurants.On("GetRestaurant", ctx, "R1").Return(ports.Restaurant{ID: "R1", Location: &pickup}, nil).Once()

	uow := newMockUoW()
	uow.expectAbortedTx()
	uow.Deliveries.On("GetFirstAwaitingCourier", ctx).Return(d, nil).Once()
	uow.Deliveries.On("Get", ctx, d.ID()).Return(d, nil).Once()
	uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.Couriers.On("GetAllAvailable", ctx).
		Return([]*courier.Courier{approvedCourier(t, "U1", true, nil)}, nil).Once()

	h := commands.NewAutoAssignCouriersCommandHandler(factoryFor(uow), restaurants, services.NewCourierDispatcher())
	require.NoError(t, h.Handle(ctx, commands.NewAutoAssignCouriersCommand()))

	assert.Nil(t, d.CourierID())
	uow.Deliveries.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAutoAssignCouriersCommandHandler_Handle_RestaurantWithoutCoordinates(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, "C1", order.Confirmed)
	d := deliveryFor(t, o.ID(), nil, delivery.Pending)

	restaurants := new(MockRestaurantClient)
	restaurants.On("GetRestaurant", ctx, "R1").Return(ports.Restaurant{ID: "R1"}, nil).Once()

	uow := newMockUoW()
	uow.Deliveries.On("GetFirstAwaitingCourier", ctx).Return(d, nil).Once()
	uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	h := commands.NewAutoAssignCouriersCommandHandler(factoryFor(uow), restaurants, services.NewCourierDispatcher())
	require.NoError(t, h.Handle(ctx, commands.NewAutoAssignCouriersCommand()))

	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestAutoAssignCouriersCommandHandler_Handle_OrderNoLongerAwaitingCourier(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, "C1", order.Cancelled)
	d := deliveryFor(t, o.ID(), nil, delivery.Pending)

	uow := newMockUoW()
	uow.Deliveries.On("GetFirstAwaitingCourier", ctx).Return(d, nil).Once()
	uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	restaurants := new(MockRestaurantClient)
	h := commands.NewAutoAssignCouriersCommandHandler(factoryFor(uow), restaurants, services.NewCourierDispatcher())
	require.NoError(t, h.Handle(ctx, commands.NewAutoAssignCouriersCommand()))

	restaurants.AssertNotCalled(t, "GetRestaurant", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}
