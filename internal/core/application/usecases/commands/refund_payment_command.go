package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRefundPaymentCommandIsNotConstructed = errors.New(
	"RefundPaymentCommand must be created via NewRefundPaymentCommand constructor",
)

type RefundPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefundPaymentCommand is restricted to administrators.
func NewRefundPaymentCommand(orderID kernel.UUID, actor kernel.Actor) (RefundPaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RefundPaymentCommand{}, err
	}
	if actor.Role != kernel.RoleAdmin {
		return RefundPaymentCommand{}, errs.NewForbiddenError(actor.Role.String(), "refund payments")
	}

	return RefundPaymentCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RefundPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRefundPaymentCommandIsNotConstructed)
}

func (c RefundPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}
