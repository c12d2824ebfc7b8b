package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// restaurantOf looks up the restaurant that prepares o. For a restaurant
// admin the restaurant must be owned by the actor, otherwise the order is
// reported as not found. Ownership cannot be proven without the lookup, so
// any failure of it is an upstream error.
func restaurantOf(
	ctx context.Context,
	restaurants ports.RestaurantClient,
	actor kernel.Actor,
	o *order.Order,
) (ports.Restaurant, error) {
	r, err := restaurants.GetRestaurant(ctx, o.RestaurantID())
	if err != nil {
		if errors.Is(err, errs.ErrUpstream) {
			return ports.Restaurant{}, err
		}
		return ports.Restaurant{}, errs.NewUpstreamError("restaurant", "get restaurant", err)
	}

	if actor.Role == kernel.RoleRestaurantAdmin && r.OwnerID != actor.ID {
		return ports.Restaurant{}, errs.NewObjectNotFoundError("order", o.ID().String())
	}
	return r, nil
}

// authorizeRestaurantAdmin is restaurantOf for callers that only need the
// ownership check. Other roles pass without a lookup.
func authorizeRestaurantAdmin(
	ctx context.Context,
	restaurants ports.RestaurantClient,
	actor kernel.Actor,
	o *order.Order,
) error {
	if actor.Role != kernel.RoleRestaurantAdmin {
		return nil
	}
	_, err := restaurantOf(ctx, restaurants, actor, o)
	return err
}
