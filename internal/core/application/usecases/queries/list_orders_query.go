package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders visible to the actor, newest first.
//
// Customers see their own orders. A restaurant admin must name one of their
// restaurants. Admins see everything and may filter by restaurant.
type ListOrdersQuery struct {
	actor        kernel.Actor
	restaurantID string
	limit        int

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(actor kernel.Actor, restaurantID string, limit int) (ListOrdersQuery, error) {
	switch actor.Role {
	case kernel.RoleCustomer, kernel.RoleAdmin:
	case kernel.RoleRestaurantAdmin:
		if restaurantID == "" {
			return ListOrdersQuery{}, errs.NewValueIsRequiredError("restaurantId")
		}
	default:
		return ListOrdersQuery{}, errs.NewForbiddenError(actor.Role.String(), "list orders")
	}
	if actor.ID == "" {
		return ListOrdersQuery{}, errs.NewValueIsRequiredError("actor id")
	}

	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}

	return ListOrdersQuery{
		actor:        actor,
		restaurantID: restaurantID,
		limit:        limit,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

type OrderSummary struct {
	ID           kernel.UUID
	CustomerID   string
	RestaurantID string
	TotalPrice   decimal.Decimal
	Status       string
	CreatedAt    time.Time
}
