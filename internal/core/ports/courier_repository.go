package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
)

type CourierRepository interface {
	Add(ctx context.Context, courier *courier.Courier) error

	Update(ctx context.Context, courier *courier.Courier) error

	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	GetByUserID(ctx context.Context, userID string) (*courier.Courier, error)

	// GetAllAvailable returns approved couriers not bound to an active delivery.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
