package services

import (
	"errors"
	"math"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
)

// ErrCourierNotFound is returned when no candidate can take the delivery.
var ErrCourierNotFound = errors.New("courier not found")

// CourierDispatcher picks the nearest courier for a delivery and binds both sides.
type CourierDispatcher struct{}

func NewCourierDispatcher() CourierDispatcher {
	return CourierDispatcher{}
}

// Dispatch selects, among couriers that can take a delivery and have a known
// position, the one closest to pickup, then assigns it to d and marks it busy.
// Couriers without a position are skipped.
func (o CourierDispatcher) Dispatch(
	d *delivery.Delivery,
	pickup kernel.Location,
	couriers []*courier.Courier,
	now time.Time,
) (*courier.Courier, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	bestCourier, err := o.findNearestCourier(pickup, couriers)
	if err != nil {
		return nil, err
	}

	if err = d.Assign(bestCourier.ID(), false, now); err != nil {
		return nil, err
	}

	if err = bestCourier.TakeDelivery(); err != nil {
		return nil, err
	}

	return bestCourier, nil
}

func (o CourierDispatcher) findNearestCourier(pickup kernel.Location, couriers []*courier.Courier) (*courier.Courier, error) {
	var (
		bestCourier  *courier.Courier
		bestDistance = math.MaxFloat64
	)

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		if c.CanTakeDelivery() != nil {
			continue
		}

		distance, located, err := c.DistanceTo(pickup)
		if err != nil {
			return nil, err
		}

		if !located {
			continue
		}

		if distance < bestDistance {
			bestDistance = distance
			bestCourier = c
		}
	}

	if bestCourier == nil {
		return nil, ErrCourierNotFound
	}

	return bestCourier, nil
}
