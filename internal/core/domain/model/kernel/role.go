package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Role is the closed set of actor roles known to the orchestrator. Any other
// string coming from a token is rejected at the boundary.
type Role string

const (
	RoleCustomer          Role = "customer"
	RoleRestaurantAdmin   Role = "restaurant_admin"
	RoleDeliveryPersonnel Role = "delivery_personnel"
	RoleAdmin             Role = "admin"
	// RoleSystem is used by internal orchestration paths such as the payment webhook.
	RoleSystem Role = "system"
)

func getValidRoles() map[Role]struct{} {
	return map[Role]struct{}{
		RoleCustomer:          {},
		RoleRestaurantAdmin:   {},
		RoleDeliveryPersonnel: {},
		RoleAdmin:             {},
		RoleSystem:            {},
	}
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	if _, ok := getValidRoles()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
	return nil
}

func (r Role) String() string {
	return string(r)
}

// HasDispatchAuthority reports whether the role may bind couriers to deliveries.
func (r Role) HasDispatchAuthority() bool {
	return r == RoleAdmin || r == RoleRestaurantAdmin
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	ID   string
	Role Role
}

func NewActor(id string, role Role) (Actor, error) {
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

// SystemActor is the actor used for transitions the service performs on its own behalf.
func SystemActor() Actor {
	return Actor{ID: "system", Role: RoleSystem}
}
