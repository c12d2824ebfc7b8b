package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type AutoAssignCouriersCommandHandler struct {
	uowFactory  UoWFactory
	restaurants ports.RestaurantClient
	dispatcher  services.CourierDispatcher
}

func NewAutoAssignCouriersCommandHandler(
	uowFactory UoWFactory,
	restaurants ports.RestaurantClient,
	dispatcher services.CourierDispatcher,
) AutoAssignCouriersCommandHandler {
	return AutoAssignCouriersCommandHandler{
		uowFactory:  uowFactory,
		restaurants: restaurants,
		dispatcher:  dispatcher,
	}
}

// Handle assigns the nearest free courier to the oldest delivery awaiting
// one. It is a no-op when nothing is waiting, when the order stopped
// accepting a courier, when no courier qualifies, or when the restaurant
// has no coordinates. A delivery taken concurrently fails the delivery
// write and rolls the attempt back.
func (h *AutoAssignCouriersCommandHandler) Handle(ctx context.Context, cmd AutoAssignCouriersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()

	candidate, err := uow.DeliveryRepository().GetFirstAwaitingCourier(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, candidate.OrderID())
	if err != nil {
		return err
	}
	if requireCourierSlot(o) != nil {
		return nil
	}

	restaurant, err := h.restaurants.GetRestaurant(ctx, o.RestaurantID())
	if err != nil {
		return err
	}
	if restaurant.Location == nil {
		return nil
	}

	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().Get(ctx, candidate.ID())
	if err != nil {
		return err
	}
	if d.CourierID() != nil {
		return nil
	}

	couriers, err := uow.CourierRepository().GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	chosen, err := h.dispatcher.Dispatch(d, *restaurant.Location, couriers, time.Now().UTC())
	if err != nil {
		if errors.Is(err, services.ErrCourierNotFound) {
			return nil
		}
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	if err = uow.CourierRepository().Update(ctx, chosen); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
