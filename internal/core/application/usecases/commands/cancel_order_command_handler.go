package commands

import (
	"context"
	"time"
)

type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle cancels a Pending order owned by the customer and its delivery.
// Refunds are not triggered here.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = o.Cancel(cmd.CustomerID(), now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = cancelDelivery(ctx, uow, o, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
