package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/notification"
)

type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
}
