package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
)

type PaymentRepository interface {
	// Add returns payment.ErrAlreadyRecorded when the order already holds an
	// active payment.
	Add(ctx context.Context, aggregate *payment.Payment) error

	// Update writes a settlement or refund. A payment changed since it was
	// loaded yields an InvalidTransitionError.
	Update(ctx context.Context, aggregate *payment.Payment) error

	// GetByIntentRef finds the payment created for a gateway intent.
	GetByIntentRef(ctx context.Context, intentRef string) (*payment.Payment, error)

	// GetActiveByOrder returns the single non-failed payment of an order.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error)

	// CountByOrder counts all payment attempts of an order.
	CountByOrder(ctx context.Context, orderID kernel.UUID) (int64, error)
}
