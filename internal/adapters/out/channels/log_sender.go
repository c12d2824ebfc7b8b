package channels

import (
	"context"
	"log/slog"
)

// LogSender writes the message to the log instead of sending it. It stands
// in for channels without a configured provider.
type LogSender struct {
	channel string
	logger  *slog.Logger
}

func NewLogSender(channel string, logger *slog.Logger) *LogSender {
	return &LogSender{channel: channel, logger: logger.With("component", "log_sender", "channel", channel)}
}

func (s *LogSender) Send(ctx context.Context, target, subject, message string) error {
	s.logger.InfoContext(ctx, "notification", "target", target, "subject", subject, "message", message)
	return nil
}
