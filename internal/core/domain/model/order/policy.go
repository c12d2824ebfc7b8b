package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// getAuthorizationTable maps each role to the target statuses it may request
// through a status update. A nil entry with anyTarget set grants every target.
// Roles absent from the table may not update order status at all; customers
// withdraw orders through Cancel instead.
func getAuthorizationTable() map[kernel.Role]authorization {
	return map[kernel.Role]authorization{
		kernel.RoleAdmin: {anyTarget: true},
		kernel.RoleRestaurantAdmin: {targets: []Status{
			Confirmed, Preparing, OutForDelivery,
		}},
		kernel.RoleSystem: {targets: []Status{
			Confirmed,
		}},
		kernel.RoleDeliveryPersonnel: {targets: []Status{
			OutForDelivery, Delivered,
		}},
	}
}

type authorization struct {
	anyTarget bool
	targets   []Status
}

func (a authorization) allows(to Status) bool {
	if a.anyTarget {
		return true
	}
	for _, s := range a.targets {
		if s == to {
			return true
		}
	}
	return false
}

// AuthorizeTransition checks the role against the authorization table and
// returns a ForbiddenError when the role may not move an order to target.
// The check depends only on the target, never on the current status.
func AuthorizeTransition(role kernel.Role, to Status) error {
	if err := role.Validate(); err != nil {
		return err
	}
	auth, ok := getAuthorizationTable()[role]
	if !ok || !auth.allows(to) {
		return errs.NewForbiddenError(role.String(), fmt.Sprintf("move order to %s", to))
	}
	return nil
}
