package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

type UpdateDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	status     delivery.Status
	actor      kernel.Actor

	guard guard.ConstructorGuard
}

// NewUpdateDeliveryStatusCommand accepts administrators, restaurant staff and
// couriers. A courier may only update deliveries bound to them, which the
// handler checks.
func NewUpdateDeliveryStatusCommand(
	deliveryID kernel.UUID,
	status delivery.Status,
	actor kernel.Actor,
) (UpdateDeliveryStatusCommand, error) {
	switch actor.Role {
	case kernel.RoleAdmin, kernel.RoleRestaurantAdmin, kernel.RoleDeliveryPersonnel:
	default:
		return UpdateDeliveryStatusCommand{}, errs.NewForbiddenError(actor.Role.String(), "update delivery status")
	}
	if err := errors.Join(deliveryID.Validate(), status.Validate()); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return UpdateDeliveryStatusCommand{
		deliveryID: deliveryID,
		status:     status,
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

func (c UpdateDeliveryStatusCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c UpdateDeliveryStatusCommand) Status() delivery.Status {
	return c.status
}

func (c UpdateDeliveryStatusCommand) Actor() kernel.Actor {
	return c.actor
}
