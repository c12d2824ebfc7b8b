package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

type RegisterCourierCommandHandler struct {
	uowFactory UoWFactory
}

func NewRegisterCourierCommandHandler(uowFactory UoWFactory) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates a pending courier profile. A user may hold one profile.
func (h *RegisterCourierCommandHandler) Handle(ctx context.Context, cmd RegisterCourierCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	c, err := courier.NewCourier(cmd.CourierID(), cmd.UserID(), cmd.Vehicle(), time.Now().UTC())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	existing, err := uow.CourierRepository().GetByUserID(ctx, cmd.UserID())
	switch {
	case err == nil:
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("userId",
			fmt.Errorf("user already registered as courier %s", existing.ID()))
	case !errors.Is(err, errs.ErrObjectNotFound):
		return kernel.UUID{}, err
	}

	if err = uow.CourierRepository().Add(ctx, c); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return c.ID(), nil
}
