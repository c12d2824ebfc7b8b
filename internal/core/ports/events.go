package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderEventPublisher receives order status changes after the transaction
// that produced them has committed. Implementations must not block.
type OrderEventPublisher interface {
	PublishStatusChanges(ctx context.Context, changes []order.StatusChange)
}
