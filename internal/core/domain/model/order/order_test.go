package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validParams(t *testing.T) order.PlaceOrderParams {
	t.Helper()
	item, err := order.NewItem("M1", 2)
	require.NoError(t, err)
	loc := kernel.MustNewLocation(79.86, 6.91)
	address, err := order.NewAddress("12 Galle Road, Colombo", &loc)
	require.NoError(t, err)

	return order.PlaceOrderParams{
		ID:              kernel.NewUUID(),
		CustomerID:      "C1",
		RestaurantID:    "R1",
		Items:           []order.Item{item},
		TotalPrice:      kernel.MustNewMoney("1000"),
		DeliveryAddress: address,
		PaymentMethod:   order.PaymentMethodCash,
		PlacedAt:        placedAt,
	}
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(validParams(t))
	require.NoError(t, err)
	return o
}

func TestNewOrder_PlacesPendingOrder(t *testing.T) {
	p := validParams(t)

	o, err := order.NewOrder(p)

	require.NoError(t, err)
	require.NoError(t, o.Validate())
	assert.Equal(t, order.Pending, o.Status())
	assert.Equal(t, "C1", o.CustomerID())
	assert.Equal(t, "R1", o.RestaurantID())
	assert.True(t, o.TotalPrice().IsEqual(kernel.MustNewMoney("1000")))
	assert.Equal(t, placedAt, o.CreatedAt())
	require.Len(t, o.Items(), 1)
	assert.Equal(t, 2, o.Items()[0].Quantity())

	changes := o.StatusChanges()
	require.Len(t, changes, 1)
	assert.True(t, changes[0].IsPlacement())
	assert.Equal(t, kernel.RoleCustomer, changes[0].ActorRole)
}

func TestNewOrder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *order.PlaceOrderParams)
		is     error
	}{
		{name: "missing id", mutate: func(p *order.PlaceOrderParams) { p.ID = kernel.UUID{} }, is: errs.ErrValueIsRequired},
		{name: "missing customer", mutate: func(p *order.PlaceOrderParams) { p.CustomerID = "" }, is: errs.ErrValueIsRequired},
		{name: "missing restaurant", mutate: func(p *order.PlaceOrderParams) { p.RestaurantID = "" }, is: errs.ErrValueIsRequired},
		{name: "no items", mutate: func(p *order.PlaceOrderParams) { p.Items = nil }, is: errs.ErrValueIsRequired},
		{name: "zero item", mutate: func(p *order.PlaceOrderParams) { p.Items = []order.Item{{}} }, is: errs.ErrValueIsInvalid},
		{name: "no address", mutate: func(p *order.PlaceOrderParams) { p.DeliveryAddress = order.Address{} }, is: errs.ErrValueIsRequired},
		{name: "unknown method", mutate: func(p *order.PlaceOrderParams) { p.PaymentMethod = "bitcoin" }, is: errs.ErrValueIsInvalid},
		{
			name:   "card without details",
			mutate: func(p *order.PlaceOrderParams) { p.PaymentMethod = order.PaymentMethodCard },
			is:     order.ErrCardDetailsRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams(t)
			tt.mutate(&p)

			o, err := order.NewOrder(p)

			require.Error(t, err)
			assert.Nil(t, o)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestNewOrder_CardWithDetails(t *testing.T) {
	p := validParams(t)
	p.PaymentMethod = order.PaymentMethodCard
	p.CardReference = "card_ref_1"

	o, err := order.NewOrder(p)

	require.NoError(t, err)
	assert.Equal(t, "card_ref_1", o.CardReference())
}

func TestOrder_TransitionTo_HappyPath(t *testing.T) {
	o := newPendingOrder(t)
	o.ClearStatusChanges()
	later := placedAt.Add(time.Minute)

	require.NoError(t, o.TransitionTo(order.Confirmed, kernel.RoleSystem, later))
	require.NoError(t, o.TransitionTo(order.Preparing, kernel.RoleRestaurantAdmin, later))
	require.NoError(t, o.TransitionTo(order.OutForDelivery, kernel.RoleRestaurantAdmin, later))
	require.NoError(t, o.TransitionTo(order.Delivered, kernel.RoleDeliveryPersonnel, later))

	assert.Equal(t, order.Delivered, o.Status())
	assert.Equal(t, later, o.UpdatedAt())

	changes := o.StatusChanges()
	require.Len(t, changes, 4)
	assert.Equal(t, order.Pending, changes[0].From)
	assert.Equal(t, order.Confirmed, changes[0].To)
	assert.Equal(t, order.Delivered, changes[3].To)
	assert.Equal(t, kernel.RoleDeliveryPersonnel, changes[3].ActorRole)
}

func TestOrder_TransitionTo_RoleCheckedBeforeEdge(t *testing.T) {
	o := newPendingOrder(t)

	// Pending -> Delivered is not an edge either, but the role is rejected first.
	err := o.TransitionTo(order.Delivered, kernel.RoleRestaurantAdmin, placedAt)
	require.ErrorIs(t, err, errs.ErrForbidden)

	err = o.TransitionTo(order.Delivered, kernel.RoleAdmin, placedAt)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	assert.Equal(t, order.Pending, o.Status())
	assert.Len(t, o.StatusChanges(), 1)
}

func TestOrder_TransitionTo_CustomerForbidden(t *testing.T) {
	o := newPendingOrder(t)

	err := o.TransitionTo(order.Cancelled, kernel.RoleCustomer, placedAt)

	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("owner cancels pending order once", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Cancel("C1", placedAt))
		assert.Equal(t, order.Cancelled, o.Status())

		err := o.Cancel("C1", placedAt)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("other customer sees not found", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Cancel("C2", placedAt)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("confirmed order cannot be cancelled", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.TransitionTo(order.Confirmed, kernel.RoleSystem, placedAt))

		err := o.Cancel("C1", placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestRestoreOrder(t *testing.T) {
	p := validParams(t)
	updated := placedAt.Add(time.Hour)

	o, err := order.RestoreOrder(p, order.Preparing, updated)

	require.NoError(t, err)
	assert.Equal(t, order.Preparing, o.Status())
	assert.Equal(t, updated, o.UpdatedAt())
	assert.Empty(t, o.StatusChanges())

	require.NoError(t, o.TransitionTo(order.OutForDelivery, kernel.RoleRestaurantAdmin, updated))
	assert.Equal(t, order.Preparing, o.LoadedStatus())

	_, err = order.RestoreOrder(p, order.Unknown, updated)
	require.Error(t, err)
}

func TestOrder_ZeroValueIsNotConstructed(t *testing.T) {
	var o order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestNewItem(t *testing.T) {
	_, err := order.NewItem("", 1)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = order.NewItem("M1", 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestAddress_Location(t *testing.T) {
	withoutCoords, err := order.NewAddress("somewhere", nil)
	require.NoError(t, err)
	_, ok := withoutCoords.Location()
	assert.False(t, ok)

	loc := kernel.MustNewLocation(79.86, 6.91)
	withCoords, err := order.NewAddress("somewhere", &loc)
	require.NoError(t, err)
	got, ok := withCoords.Location()
	assert.True(t, ok)
	assert.True(t, got.IsEqual(loc))
}
