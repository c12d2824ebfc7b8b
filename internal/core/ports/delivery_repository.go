package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
)

type DeliveryRepository interface {
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	Update(ctx context.Context, aggregate *delivery.Delivery) error

	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// GetFirstAwaitingCourier returns the oldest delivery without a courier
	// whose order is Confirmed or Preparing.
	GetFirstAwaitingCourier(ctx context.Context) (*delivery.Delivery, error)
}
