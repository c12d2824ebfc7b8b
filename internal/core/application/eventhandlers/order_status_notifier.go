// Package eventhandlers reacts to committed domain changes.
package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// OrderStatusNotifier turns committed order status changes into customer
// notification intents. It implements ports.OrderEventPublisher.
type OrderStatusNotifier struct {
	notifier ports.Notifier
	channels []notification.Channel
	logger   *slog.Logger
}

func NewOrderStatusNotifier(notifier ports.Notifier, channels []notification.Channel, logger *slog.Logger) *OrderStatusNotifier {
	return &OrderStatusNotifier{
		notifier: notifier,
		channels: channels,
		logger:   logger.With("component", "order_status_notifier"),
	}
}

func (n *OrderStatusNotifier) PublishStatusChanges(ctx context.Context, changes []order.StatusChange) {
	for _, c := range changes {
		subject, message := describe(c)
		n.logger.DebugContext(ctx, "order status changed",
			"order_id", c.OrderID.String(), "from", c.From.String(), "to", c.To.String(), "actor_role", c.ActorRole.String())

		n.notifier.Notify(ctx, ports.NotificationIntent{
			UserID:   c.CustomerID,
			Channels: n.channels,
			Subject:  subject,
			Message:  message,
		})
	}
}

func describe(c order.StatusChange) (string, string) {
	ref := shortRef(c.OrderID.String())
	if c.IsPlacement() {
		return "Order placed", fmt.Sprintf("Your order %s has been placed and is awaiting payment.", ref)
	}

	switch c.To {
	case order.Confirmed:
		return "Order confirmed", fmt.Sprintf("Your order %s is confirmed.", ref)
	case order.Preparing:
		return "Order in the kitchen", fmt.Sprintf("The restaurant is preparing your order %s.", ref)
	case order.OutForDelivery:
		return "Order on its way", fmt.Sprintf("Your order %s is out for delivery.", ref)
	case order.Delivered:
		return "Order delivered", fmt.Sprintf("Your order %s has been delivered. Enjoy!", ref)
	case order.Cancelled:
		return "Order cancelled", fmt.Sprintf("Your order %s has been cancelled.", ref)
	default:
		return "Order update", fmt.Sprintf("Your order %s is now %s.", ref, c.To.String())
	}
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
