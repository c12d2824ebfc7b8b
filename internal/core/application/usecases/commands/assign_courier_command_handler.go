package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type AssignCourierCommandHandler struct {
	uowFactory  UoWFactory
	restaurants ports.RestaurantClient
}

func NewAssignCourierCommandHandler(
	uowFactory UoWFactory,
	restaurants ports.RestaurantClient,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory:  uowFactory,
		restaurants: restaurants,
	}
}

// Handle binds the courier to the delivery and marks the courier busy. On
// reassignment the previous courier is released. The order must be paid
// for and still undelivered, and a restaurant admin must own its
// restaurant.
func (h *AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
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

	d, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, d.OrderID())
	if err != nil {
		return err
	}

	if err = authorizeRestaurantAdmin(ctx, h.restaurants, cmd.Actor(), o); err != nil {
		return err
	}

	if previous := d.CourierID(); previous != nil && previous.IsEqual(cmd.CourierID()) {
		return nil
	}

	if err = requireCourierSlot(o); err != nil {
		return err
	}

	c, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = c.CanTakeDelivery(); err != nil {
		return err
	}

	if cmd.Reassign() {
		if err = releaseCourier(ctx, uow.CourierRepository(), d, false); err != nil {
			return err
		}
	}

	if err = d.Assign(c.ID(), cmd.Reassign(), time.Now().UTC()); err != nil {
		return err
	}

	if err = c.TakeDelivery(); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// requireCourierSlot rejects courier assignment for orders that are unpaid
// or already finished.
func requireCourierSlot(o *order.Order) error {
	if !o.Status().AcceptsCourier() {
		return errs.NewInvalidTransitionError("delivery", "order "+o.Status().String(), delivery.Assigned.String())
	}
	return nil
}
