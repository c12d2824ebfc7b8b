package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrAutoAssignCouriersCommandIsNotConstructed = errors.New(
	"AutoAssignCouriersCommand must be created via NewAutoAssignCouriersCommand constructor",
)

type AutoAssignCouriersCommand struct {
	guard guard.ConstructorGuard
}

func NewAutoAssignCouriersCommand() AutoAssignCouriersCommand {
	return AutoAssignCouriersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c AutoAssignCouriersCommand) Validate() error {
	return c.guard.Validate(ErrAutoAssignCouriersCommandIsNotConstructed)
}
