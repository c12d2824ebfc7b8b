package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, customerID string) (CancelOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}
	if customerID == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("customerId")
	}

	return CancelOrderCommand{
		orderID:    orderID,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) CustomerID() string {
	return c.customerID
}
