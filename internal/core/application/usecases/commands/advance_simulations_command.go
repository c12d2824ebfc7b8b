package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrAdvanceSimulationsCommandIsNotConstructed = errors.New(
	"AdvanceSimulationsCommand must be created via NewAdvanceSimulationsCommand constructor",
)

type AdvanceSimulationsCommand struct {
	guard guard.ConstructorGuard
}

func NewAdvanceSimulationsCommand() AdvanceSimulationsCommand {
	return AdvanceSimulationsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c AdvanceSimulationsCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceSimulationsCommandIsNotConstructed)
}
