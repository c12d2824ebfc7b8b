package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/simulation"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// DefaultSimulationSteps is used when no step count is configured.
const DefaultSimulationSteps = 20

type SimulateMovementCommandHandler struct {
	uowFactory  UoWFactory
	restaurants ports.RestaurantClient
	totalSteps  int
}

func NewSimulateMovementCommandHandler(
	uowFactory UoWFactory,
	restaurants ports.RestaurantClient,
	totalSteps int,
) SimulateMovementCommandHandler {
	if totalSteps < 1 {
		totalSteps = DefaultSimulationSteps
	}
	return SimulateMovementCommandHandler{
		uowFactory:  uowFactory,
		restaurants: restaurants,
		totalSteps:  totalSteps,
	}
}

// Handle starts a movement simulation from the restaurant to the delivery
// address for the courier bound to the order. The simulation job advances it
// one step per tick. An active simulation for the same order is returned
// instead of starting a second one. Restaurant admins must own the order's
// restaurant.
func (h *SimulateMovementCommandHandler) Handle(ctx context.Context, cmd SimulateMovementCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}

	actor := cmd.Actor()
	if !actor.Role.HasDispatchAuthority() && !o.IsOwnedBy(actor.ID) {
		return kernel.UUID{}, errs.NewObjectNotFoundError("order", o.ID().String())
	}

	var restaurant *ports.Restaurant
	if actor.Role == kernel.RoleRestaurantAdmin {
		owned, ownedErr := restaurantOf(ctx, h.restaurants, actor, o)
		if ownedErr != nil {
			return kernel.UUID{}, ownedErr
		}
		restaurant = &owned
	}

	active, err := uow.SimulationRepository().GetActiveByOrder(ctx, o.ID())
	switch {
	case err == nil:
		return active.ID(), nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return kernel.UUID{}, err
	}

	d, err := uow.DeliveryRepository().GetByOrder(ctx, o.ID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if d.CourierID() == nil {
		return kernel.UUID{}, errs.NewValueIsRequiredError("courier assignment")
	}

	destination, ok := o.DeliveryAddress().Location()
	if !ok {
		return kernel.UUID{}, errs.NewValueIsRequiredError("delivery address coordinates")
	}

	if restaurant == nil {
		found, foundErr := restaurantOf(ctx, h.restaurants, actor, o)
		if foundErr != nil {
			return kernel.UUID{}, foundErr
		}
		restaurant = &found
	}
	if restaurant.Location == nil {
		return kernel.UUID{}, errs.NewValueIsRequiredError("restaurant coordinates")
	}

	sim, err := simulation.NewSimulation(simulation.Params{
		ID:         kernel.NewUUID(),
		OrderID:    o.ID(),
		CourierID:  *d.CourierID(),
		From:       *restaurant.Location,
		To:         destination,
		TotalSteps: h.totalSteps,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.SimulationRepository().Add(ctx, sim); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return sim.ID(), nil
}
