package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRegisterCourierCommandIsNotConstructed = errors.New(
	"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
)

type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	userID    string
	vehicle   string

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand registers the authenticated user as a courier.
func NewRegisterCourierCommand(actor kernel.Actor, vehicle string) (RegisterCourierCommand, error) {
	var err error
	if actor.ID == "" {
		err = courier.ErrUserIDIsRequired
	}
	if vehicle == "" {
		err = errors.Join(err, courier.ErrVehicleIsRequired)
	}
	if err != nil {
		return RegisterCourierCommand{}, err
	}

	return RegisterCourierCommand{
		courierID: kernel.NewUUID(),
		userID:    actor.ID,
		vehicle:   vehicle,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

func (c RegisterCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c RegisterCourierCommand) UserID() string {
	return c.userID
}

func (c RegisterCourierCommand) Vehicle() string {
	return c.vehicle
}
