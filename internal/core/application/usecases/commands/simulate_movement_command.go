package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrSimulateMovementCommandIsNotConstructed = errors.New(
	"SimulateMovementCommand must be created via NewSimulateMovementCommand constructor",
)

type SimulateMovementCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewSimulateMovementCommand(orderID kernel.UUID, actor kernel.Actor) (SimulateMovementCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Role.Validate()); err != nil {
		return SimulateMovementCommand{}, err
	}

	return SimulateMovementCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SimulateMovementCommand) Validate() error {
	return c.guard.Validate(ErrSimulateMovementCommandIsNotConstructed)
}

func (c SimulateMovementCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SimulateMovementCommand) Actor() kernel.Actor {
	return c.actor
}
