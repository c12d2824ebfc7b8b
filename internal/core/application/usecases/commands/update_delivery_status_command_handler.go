package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// deliveryProgress is the actor the order is advanced as when delivery
// progress moves it.
var deliveryProgress = kernel.Actor{ID: "delivery", Role: kernel.RoleDeliveryPersonnel}

type UpdateDeliveryStatusCommandHandler struct {
	uowFactory  UoWFactory
	restaurants ports.RestaurantClient
	logger      *slog.Logger
}

func NewUpdateDeliveryStatusCommandHandler(
	uowFactory UoWFactory,
	restaurants ports.RestaurantClient,
	logger *slog.Logger,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory:  uowFactory,
		restaurants: restaurants,
		logger:      logger.With("component", "delivery_status"),
	}
}

// Handle updates the delivery and advances its order to the mapped status in
// the same transaction, acting as delivery personnel. A delivery status the
// order cannot follow is rejected as an invalid transition, so the two never
// disagree. The courier is freed when the delivery ends.
func (h *UpdateDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryStatusCommand) error {
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

	if cmd.Actor().Role == kernel.RoleDeliveryPersonnel {
		if err = h.checkBoundCourier(ctx, uow, d, cmd.Actor()); err != nil {
			return err
		}
	}

	o, err := uow.OrderRepository().Get(ctx, d.OrderID())
	if err != nil {
		return err
	}

	if err = authorizeRestaurantAdmin(ctx, h.restaurants, cmd.Actor(), o); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = d.UpdateStatus(cmd.Status(), now); err != nil {
		return err
	}

	if err = followDelivery(o, d, now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	if len(o.StatusChanges()) > 0 {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}
	}

	if d.Status().IsFinal() {
		if err = releaseCourier(ctx, uow.CourierRepository(), d, d.Status() == delivery.Delivered); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.DebugContext(ctx, "delivery status updated",
		"delivery_id", d.ID().String(),
		"delivery_status", d.Status().String(),
		"order_status", o.Status().String())
	return nil
}

// followDelivery advances o to the order status d maps to. Statuses without
// an order counterpart leave o alone. An order the courier cannot move there
// yields InvalidTransitionError.
func followDelivery(o *order.Order, d *delivery.Delivery, now time.Time) error {
	target, ok := d.Status().OrderStatus()
	if !ok {
		return nil
	}

	from := o.Status()
	err := advanceOrder(o, target, deliveryProgress, now)
	if errors.Is(err, errs.ErrForbidden) {
		return errs.NewInvalidTransitionError("order", from.String(), target.String())
	}
	return err
}

// advanceOrder walks the order to target through every intermediate edge.
// Each step is authorized separately, so the walk never grants more than
// the authorization table does.
func advanceOrder(o *order.Order, target order.Status, actor kernel.Actor, now time.Time) error {
	if o.Status() == target {
		return nil
	}

	path := o.Status().PathTo(target)
	if path == nil {
		return errs.NewInvalidTransitionError("order", o.Status().String(), target.String())
	}

	for _, next := range path {
		if err := o.TransitionTo(next, actor.Role, now); err != nil {
			return err
		}
	}
	return nil
}

func (h *UpdateDeliveryStatusCommandHandler) checkBoundCourier(
	ctx context.Context,
	uow UoW,
	d *delivery.Delivery,
	actor kernel.Actor,
) error {
	c, err := uow.CourierRepository().GetByUserID(ctx, actor.ID)
	if err != nil {
		return errs.NewObjectNotFoundErrorWithCause("delivery", d.ID().String(), err)
	}
	if d.CourierID() == nil || !d.CourierID().IsEqual(c.ID()) {
		return errs.NewObjectNotFoundError("delivery", d.ID().String())
	}
	return nil
}
