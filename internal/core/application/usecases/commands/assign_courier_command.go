package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID
	reassign   bool
	actor      kernel.Actor

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand requires an actor with dispatch authority.
// reassign must be set to replace an already bound courier.
func NewAssignCourierCommand(
	deliveryID, courierID kernel.UUID,
	actor kernel.Actor,
	reassign bool,
) (AssignCourierCommand, error) {
	if !actor.Role.HasDispatchAuthority() {
		return AssignCourierCommand{}, errs.NewForbiddenError(actor.Role.String(), "assign couriers")
	}
	if err := errors.Join(deliveryID.Validate(), courierID.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		deliveryID: deliveryID,
		courierID:  courierID,
		reassign:   reassign,
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

func (c AssignCourierCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c AssignCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c AssignCourierCommand) Reassign() bool {
	return c.reassign
}

func (c AssignCourierCommand) Actor() kernel.Actor {
	return c.actor
}
