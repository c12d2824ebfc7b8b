package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type PlaceOrderCommandHandler struct {
	uowFactory  UoWFactory
	restaurants ports.RestaurantClient
}

func NewPlaceOrderCommandHandler(uowFactory UoWFactory, restaurants ports.RestaurantClient) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory:  uowFactory,
		restaurants: restaurants,
	}
}

// Handle verifies the restaurant, then stores the Pending order and its
// Delivery in one transaction. An unknown restaurant is a validation error;
// any other restaurant lookup failure aborts with an upstream error. The
// placement notification is emitted after commit by the order event
// publisher, so it can never fail placement.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	if _, err := h.restaurants.GetRestaurant(ctx, cmd.RestaurantID()); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("restaurantId", err)
		}
		return kernel.UUID{}, err
	}

	now := time.Now().UTC()
	o, err := order.NewOrder(order.PlaceOrderParams{
		ID:              cmd.OrderID(),
		CustomerID:      cmd.Customer().ID,
		RestaurantID:    cmd.RestaurantID(),
		Items:           cmd.Items(),
		TotalPrice:      cmd.TotalPrice(),
		DeliveryAddress: cmd.DeliveryAddress(),
		PaymentMethod:   cmd.PaymentMethod(),
		CardReference:   cmd.CardReference(),
		PlacedAt:        now,
	})
	if err != nil {
		return kernel.UUID{}, err
	}

	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), o.CustomerID(), now)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return o.ID(), nil
}
