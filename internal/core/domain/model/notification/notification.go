package notification

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return c, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("%q is not supported", s))
	}
}

func (c Channel) String() string {
	return string(c)
}

type Status string

const (
	Pending Status = "Pending"
	Sent    Status = "Sent"
	Failed  Status = "Failed"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// Notification is the record of one send attempt on one channel. Only the
// status changes after creation.
type Notification struct {
	id        kernel.UUID
	userID    string
	channel   Channel
	target    string
	message   string
	status    Status
	failure   string
	createdAt time.Time
	guard     guard.ConstructorGuard
}

func NewNotification(id kernel.UUID, userID string, channel Channel, target, message string, now time.Time) (*Notification, error) {
	n := &Notification{
		id:        id,
		userID:    userID,
		channel:   channel,
		target:    target,
		message:   message,
		status:    Pending,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	_, channelErr := ParseChannel(string(channel))
	var err error
	if userID == "" {
		err = errs.NewValueIsRequiredError("userId")
	}
	if message == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("message"))
	}
	if err = errors.Join(err, id.Validate(), channelErr); err != nil {
		return nil, err
	}

	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil {
		return ErrNotificationIsNotConstructed
	}
	return n.guard.Validate(ErrNotificationIsNotConstructed)
}

func (n *Notification) ID() kernel.UUID {
	return n.id
}

func (n *Notification) UserID() string {
	return n.userID
}

func (n *Notification) Channel() Channel {
	return n.channel
}

// Target is the resolved address on the channel: an email or phone number.
func (n *Notification) Target() string {
	return n.target
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) Status() Status {
	return n.status
}

// FailureReason is empty unless the status is Failed.
func (n *Notification) FailureReason() string {
	return n.failure
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) MarkSent() error {
	if n.status != Pending {
		return errs.NewInvalidTransitionError("notification", string(n.status), string(Sent))
	}
	n.status = Sent
	return nil
}

func (n *Notification) MarkFailed(reason string) error {
	if n.status != Pending {
		return errs.NewInvalidTransitionError("notification", string(n.status), string(Failed))
	}
	n.status = Failed
	n.failure = reason
	return nil
}
