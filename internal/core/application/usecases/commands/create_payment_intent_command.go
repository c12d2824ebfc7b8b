package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreatePaymentIntentCommandIsNotConstructed = errors.New(
	"CreatePaymentIntentCommand must be created via NewCreatePaymentIntentCommand constructor",
)

type CreatePaymentIntentCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID string

	guard guard.ConstructorGuard
}

func NewCreatePaymentIntentCommand(orderID kernel.UUID, customerID string) (CreatePaymentIntentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CreatePaymentIntentCommand{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	if customerID == "" {
		return CreatePaymentIntentCommand{}, errs.NewValueIsRequiredError("customerId")
	}

	return CreatePaymentIntentCommand{
		orderID:    orderID,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreatePaymentIntentCommand) Validate() error {
	return c.guard.Validate(ErrCreatePaymentIntentCommandIsNotConstructed)
}

func (c CreatePaymentIntentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreatePaymentIntentCommand) CustomerID() string {
	return c.customerID
}
