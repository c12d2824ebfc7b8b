// Package channels delivers customer notifications: the asynchronous
// dispatcher behind ports.Notifier and one ChannelSender per channel.
package channels

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
)

var ErrChannelNotConfigured = errors.New("channel is not configured")

type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher is a bounded in-process queue drained by a fixed worker pool.
// Every attempted channel leaves a Notification record.
type Dispatcher struct {
	identity ports.IdentityClient
	senders  map[notification.Channel]ports.ChannelSender
	repo     ports.NotificationRepository
	cfg      DispatcherConfig
	logger   *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan ports.NotificationIntent
	wg     sync.WaitGroup
}

func NewDispatcher(
	identity ports.IdentityClient,
	senders map[notification.Channel]ports.ChannelSender,
	repo ports.NotificationRepository,
	cfg DispatcherConfig,
	logger *slog.Logger,
) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}

	return &Dispatcher{
		identity: identity,
		senders:  senders,
		repo:     repo,
		cfg:      cfg,
		logger:   logger.With("component", "notification_dispatcher"),
		queue:    make(chan ports.NotificationIntent, cfg.QueueSize),
	}
}

func (d *Dispatcher) Start() {
	for range d.cfg.Workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for intent := range d.queue {
				d.deliver(intent)
			}
		}()
	}
}

// Notify enqueues the intent and returns immediately. A full queue or a
// stopped dispatcher drops it.
func (d *Dispatcher) Notify(ctx context.Context, intent ports.NotificationIntent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.WarnContext(ctx, "dispatcher stopped, notification dropped", "user_id", intent.UserID)
		return
	}

	select {
	case d.queue <- intent:
	default:
		d.logger.WarnContext(ctx, "notification queue full, notification dropped", "user_id", intent.UserID)
	}
}

// Shutdown stops intake and waits for the queued intents to be delivered or
// for ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(intent ports.NotificationIntent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	user, userErr := d.identity.GetUser(ctx, intent.UserID)
	cancel()

	for _, channel := range intent.Channels {
		log := d.logger.With("user_id", intent.UserID, "channel", channel.String())

		target := targetFor(channel, user)
		n, err := notification.NewNotification(kernel.NewUUID(), intent.UserID, channel, target, intent.Message, time.Now().UTC())
		if err != nil {
			log.Warn("invalid notification intent", "error", err)
			continue
		}

		var sendErr error
		switch sender, ok := d.senders[channel]; {
		case userErr != nil:
			sendErr = userErr
		case !ok:
			sendErr = ErrChannelNotConfigured
		default:
			sendErr = d.send(sender, target, intent.Subject, intent.Message)
		}

		if sendErr != nil {
			log.Warn("notification failed", "error", sendErr)
			_ = n.MarkFailed(sendErr.Error())
		} else {
			_ = n.MarkSent()
		}

		if err = d.record(n); err != nil {
			log.Error("notification record not saved", "notification_id", n.ID().String(), "error", err)
		}
	}
}

func (d *Dispatcher) send(sender ports.ChannelSender, target, subject, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()
	return sender.Send(ctx, target, subject, message)
}

func (d *Dispatcher) record(n *notification.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()
	return d.repo.Add(ctx, n)
}

func targetFor(channel notification.Channel, user ports.User) string {
	if channel == notification.ChannelEmail {
		return user.Email
	}
	return user.Phone
}
