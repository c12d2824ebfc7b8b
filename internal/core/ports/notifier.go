package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/notification"
)

// NotificationIntent asks for a message to reach a user on each listed channel.
type NotificationIntent struct {
	UserID   string
	Channels []notification.Channel
	Subject  string
	Message  string
}

// Notifier accepts intents for asynchronous delivery. Notify never blocks
// and never reports send failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, intent NotificationIntent)
}

// ChannelSender delivers one message on one channel.
type ChannelSender interface {
	Send(ctx context.Context, target, subject, message string) error
}
