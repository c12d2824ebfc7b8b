package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetCourierLocationQueryIsNotConstructed = errors.New(
	"GetCourierLocationQuery must be created via NewGetCourierLocationQuery constructor",
)

type GetCourierLocationQuery struct {
	orderID    kernel.UUID
	customerID string
	guard      guard.ConstructorGuard
}

func NewGetCourierLocationQuery(orderID kernel.UUID, customerID string) (GetCourierLocationQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetCourierLocationQuery{}, err
	}
	if customerID == "" {
		return GetCourierLocationQuery{}, errs.NewValueIsRequiredError("customerId")
	}

	return GetCourierLocationQuery{orderID: orderID, customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierLocationQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierLocationQueryIsNotConstructed)
}

type CourierLocation struct {
	CourierID kernel.UUID
	Location  kernel.Location
	LocatedAt time.Time
}
