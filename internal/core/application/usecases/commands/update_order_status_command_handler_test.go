package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateOrderStatusCommandHandler_Handle_RestaurantConfirms(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, "C1", order.Pending)
	actor := kernel.Actor{ID: "owner", Role: kernel.RoleRestaurantAdmin}
	cmd, err := commands.NewUpdateOrderStatusCommand(o.ID(), order.Confirmed, actor)
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(nil)
	uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.Orders.On("Update", ctx, o).Return(nil).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factoryFor(uow), restaurantOwnedBy("owner"))
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Confirmed, o.Status())
	changes := o.StatusChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, order.Pending, changes[0].From)
	assert.Equal(t, kernel.RoleRestaurantAdmin, changes[0].ActorRole)
	uow.AssertAll(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		from    order.Status
		to      order.Status
		role    kernel.Role
		wantErr error
	}{
		{"customer_cannot_update", order.Pending, order.Confirmed, kernel.RoleCustomer, errs.ErrForbidden},
		{"courier_cannot_confirm", order.Pending, order.Confirmed, kernel.RoleDeliveryPersonnel, errs.ErrForbidden},
		{"skip_edge", order.Pending, order.Delivered, kernel.RoleAdmin, errs.ErrInvalidTransition},
		{"terminal_state", order.Delivered, order.Cancelled, kernel.RoleAdmin, errs.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			o := orderIn(t, "C1", tt.from)
			cmd, err := commands.NewUpdateOrderStatusCommand(o.ID(), tt.to, kernel.Actor{ID: "X", Role: tt.role})
			require.NoError(t, err)

			uow := newMockUoW()
			uow.expectAbortedTx()
			uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

			h := commands.NewUpdateOrderStatusCommandHandler(factoryFor(uow), new(MockRestaurantClient))
			err = h.Handle(ctx, cmd)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.from, o.Status())
			uow.Orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateOrderStatusCommandHandler_Handle_AdminCancelCancelsDelivery(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, "C1", order.Pending)
	c := approvedCourier(t, "U1", false, nil)
	courierID := c.ID()
	d := deliveryFor(t, o.ID(), &courierID, delivery.Assigned)
	cmd, err := commands.NewUpdateOrderStatusCommand(o.ID(), order.Cancelled, admin())
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(nil)
	uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.Orders.On("Update", ctx, o).Return(nil).Once()
	uow.Deliveries.On("GetByOrder", ctx, o.ID()).Return(d, nil).Once()
	uow.Deliveries.On("Update", ctx, d).Return(nil).Once()
	uow.Couriers.On("Get", ctx, courierID).Return(c, nil).Once()
	uow.Couriers.On("Update", ctx, c).Return(nil).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factoryFor(uow), new(MockRestaurantClient))
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, delivery.Cancelled, d.Status())
	assert.True(t, c.IsAvailable())
	assert.Equal(t, 0, c.DeliveryCount())
	uow.AssertAll(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_UnknownOrder(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, err := commands.NewUpdateOrderStatusCommand(id, order.Confirmed, admin())
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectAbortedTx()
	uow.Orders.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factoryFor(uow), new(MockRestaurantClient))
	require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrObjectNotFound)
}

func TestUpdateOrderStatusCommandHandler_Handle_ForeignRestaurantAdmin(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, "C1", order.Pending)
	actor := kernel.Actor{ID: "RA2", Role: kernel.RoleRestaurantAdmin}
	cmd, err := commands.NewUpdateOrderStatusCommand(o.ID(), order.Confirmed, actor)
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectAbortedTx()
	uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factoryFor(uow), restaurantOwnedBy("RA1"))

	require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrObjectNotFound)
	assert.Equal(t, order.Pending, o.Status())
	uow.Orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_OwnershipLookupFailure(t *testing.T) {
	tests := []struct {
		name   string
		lookup error
	}{
		{"unreachable", errors.New("connection refused")},
		{"restaurant_gone", errs.NewObjectNotFoundError("restaurant", "R1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			o := orderIn(t, "C1", order.Pending)
			actor := kernel.Actor{ID: "RA1", Role: kernel.RoleRestaurantAdmin}
			cmd, err := commands.NewUpdateOrderStatusCommand(o.ID(), order.Confirmed, actor)
			require.NoError(t, err)

			uow := newMockUoW()
			uow.expectAbortedTx()
			uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

			restaurants := new(MockRestaurantClient)
			restaurants.On("GetRestaurant", ctx, "R1").Return(ports.Restaurant{}, tt.lookup).Once()

			h := commands.NewUpdateOrderStatusCommandHandler(factoryFor(uow), restaurants)
			err = h.Handle(ctx, cmd)

			require.ErrorIs(t, err, errs.ErrUpstream)
			assert.Equal(t, order.Pending, o.Status())
		})
	}
}

func TestUpdateOrderStatusCommandHandler_Handle_CancelRefusedOnceDeliveryLeft(t *testing.T) {
	for _, status := range []delivery.Status{delivery.OutForDelivery, delivery.OnTheWay, delivery.Delivered} {
		t.Run(status.String(), func(t *testing.T) {
			ctx := t.Context()
			o := orderIn(t, "C1", order.Pending)
			courierID := kernel.NewUUID()
			d := deliveryFor(t, o.ID(), &courierID, status)
			cmd, err := commands.NewUpdateOrderStatusCommand(o.ID(), order.Cancelled, admin())
			require.NoError(t, err)

			uow := newMockUoW()
			uow.expectAbortedTx()
			uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
			uow.Orders.On("Update", ctx, o).Return(nil).Once()
			uow.Deliveries.On("GetByOrder", ctx, o.ID()).Return(d, nil).Once()

			h := commands.NewUpdateOrderStatusCommandHandler(factoryFor(uow), new(MockRestaurantClient))

			require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrInvalidTransition)
			assert.Equal(t, status, d.Status())
			uow.Deliveries.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}
