package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type UpdateOrderStatusCommandHandler struct {
	uowFactory  UoWFactory
	restaurants ports.RestaurantClient
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	restaurants ports.RestaurantClient,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		restaurants: restaurants,
	}
}

// Handle applies the transition in one transaction together with its
// status history row. Restaurant admins may only move orders of restaurants
// they own. Notification of the change happens after commit and never
// affects the result.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = authorizeRestaurantAdmin(ctx, h.restaurants, cmd.Actor(), o); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = o.TransitionTo(cmd.Status(), cmd.Actor().Role, now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if cmd.Status() == order.Cancelled {
		if err = cancelDelivery(ctx, uow, o, now); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// cancelDelivery cancels the order's delivery and frees its courier. A
// delivery that already left the restaurant cannot be called back, so the
// cancellation fails with InvalidTransitionError.
func cancelDelivery(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
	d, err := uow.DeliveryRepository().GetByOrder(ctx, o.ID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}
	if d.Status() == delivery.Cancelled {
		return nil
	}
	if d.HasLeft() {
		return errs.NewInvalidTransitionError("delivery", d.Status().String(), delivery.Cancelled.String())
	}

	if err = d.UpdateStatus(delivery.Cancelled, now); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	return releaseCourier(ctx, uow.CourierRepository(), d, false)
}

// releaseCourier frees the courier bound to d, counting the delivery when
// completed is true.
func releaseCourier(ctx context.Context, couriers ports.CourierRepository, d *delivery.Delivery, completed bool) error {
	if d.CourierID() == nil {
		return nil
	}
	c, err := couriers.Get(ctx, *d.CourierID())
	if err != nil {
		return err
	}
	if completed {
		c.CompleteDelivery()
	} else {
		c.Release()
	}
	return couriers.Update(ctx, c)
}
