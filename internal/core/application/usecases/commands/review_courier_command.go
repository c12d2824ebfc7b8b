package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReviewCourierCommandIsNotConstructed = errors.New(
	"ReviewCourierCommand must be created via NewReviewCourierCommand constructor",
)

type ReviewCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	approve   bool

	guard guard.ConstructorGuard
}

// NewReviewCourierCommand is restricted to administrators.
func NewReviewCourierCommand(courierID kernel.UUID, approve bool, actor kernel.Actor) (ReviewCourierCommand, error) {
	if actor.Role != kernel.RoleAdmin {
		return ReviewCourierCommand{}, errs.NewForbiddenError(actor.Role.String(), "review couriers")
	}
	if err := courierID.Validate(); err != nil {
		return ReviewCourierCommand{}, err
	}

	return ReviewCourierCommand{
		courierID: courierID,
		approve:   approve,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReviewCourierCommand) Validate() error {
	return c.guard.Validate(ErrReviewCourierCommandIsNotConstructed)
}

func (c ReviewCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c ReviewCourierCommand) Approve() bool {
	return c.approve
}
