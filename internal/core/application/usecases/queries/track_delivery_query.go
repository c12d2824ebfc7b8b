package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrTrackDeliveryQueryIsNotConstructed = errors.New(
	"TrackDeliveryQuery must be created via NewTrackDeliveryQuery constructor",
)

type TrackDeliveryQuery struct {
	deliveryID kernel.UUID
	customerID string
	guard      guard.ConstructorGuard
}

func NewTrackDeliveryQuery(deliveryID kernel.UUID, customerID string) (TrackDeliveryQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return TrackDeliveryQuery{}, err
	}
	if customerID == "" {
		return TrackDeliveryQuery{}, errs.NewValueIsRequiredError("customerId")
	}

	return TrackDeliveryQuery{deliveryID: deliveryID, customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q TrackDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrTrackDeliveryQueryIsNotConstructed)
}

// DeliveryTracking is what a customer may see of a delivery. DeliveryTime is
// set only once the delivery is Delivered.
type DeliveryTracking struct {
	DeliveryID   kernel.UUID
	Status       string
	DeliveryTime *time.Time
}
