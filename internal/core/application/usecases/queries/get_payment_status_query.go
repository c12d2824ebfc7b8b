package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetPaymentStatusQueryIsNotConstructed = errors.New(
	"GetPaymentStatusQuery must be created via NewGetPaymentStatusQuery constructor",
)

// GetPaymentStatusQuery reads the latest payment attempt of an order.
// Customers only see their own payments.
type GetPaymentStatusQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor
	guard   guard.ConstructorGuard
}

func NewGetPaymentStatusQuery(orderID kernel.UUID, actor kernel.Actor) (GetPaymentStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetPaymentStatusQuery{}, err
	}
	if actor.Role != kernel.RoleCustomer && actor.Role != kernel.RoleAdmin {
		return GetPaymentStatusQuery{}, errs.NewForbiddenError(actor.Role.String(), "read payment status")
	}
	if actor.ID == "" {
		return GetPaymentStatusQuery{}, errs.NewValueIsRequiredError("actor id")
	}

	return GetPaymentStatusQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPaymentStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetPaymentStatusQueryIsNotConstructed)
}

type PaymentStatus struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	CartAmount  decimal.Decimal
	DeliveryFee decimal.Decimal
	Amount      decimal.Decimal
	Currency    string
	Status      string
	IntentRef   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
