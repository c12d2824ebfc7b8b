package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand requests a single-edge transition.
func NewUpdateOrderStatusCommand(orderID kernel.UUID, status order.Status, actor kernel.Actor) (UpdateOrderStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), status.Validate(), actor.Role.Validate()); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		orderID: orderID,
		status:  status,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c UpdateOrderStatusCommand) Actor() kernel.Actor {
	return c.actor
}
