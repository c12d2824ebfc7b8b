package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrTrackOrderQueryIsNotConstructed = errors.New(
	"TrackOrderQuery must be created via NewTrackOrderQuery constructor",
)

type TrackOrderQuery struct {
	orderID    kernel.UUID
	customerID string
	guard      guard.ConstructorGuard
}

func NewTrackOrderQuery(orderID kernel.UUID, customerID string) (TrackOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return TrackOrderQuery{}, err
	}
	if customerID == "" {
		return TrackOrderQuery{}, errs.NewValueIsRequiredError("customerId")
	}

	return TrackOrderQuery{orderID: orderID, customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q TrackOrderQuery) Validate() error {
	return q.guard.Validate(ErrTrackOrderQueryIsNotConstructed)
}

// OrderTracking combines both status vocabularies. Status is the order
// vocabulary status the customer should be shown: the delivery's mapped
// status while the courier is out, the order status otherwise.
type OrderTracking struct {
	OrderID         kernel.UUID
	OrderStatus     string
	DeliveryStatus  string
	Status          string
	CourierLocation *kernel.Location
	LocatedAt       *time.Time
	DeliveryTime    *time.Time
}
