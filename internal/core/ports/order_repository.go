package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates together with their pending
// status changes.
type OrderRepository interface {
	// Add stores a new order and its recorded status changes.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update stores the current state and appends recorded status changes.
	// Returns gorm.ErrRecordNotFound semantics when the order does not exist.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
