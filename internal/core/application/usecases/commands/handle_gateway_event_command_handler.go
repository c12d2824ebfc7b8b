package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type HandleGatewayEventCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
	logger     *slog.Logger
}

func NewHandleGatewayEventCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	logger *slog.Logger,
) HandleGatewayEventCommandHandler {
	return HandleGatewayEventCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger.With("component", "payment_webhook"),
	}
}

// Handle verifies and applies a gateway callback.
//
// A signature failure is a validation error and nothing else happens.
// Unknown event kinds and unknown intents are acknowledged without effect.
// Settlement is keyed on the intent reference: only a pending payment moves,
// so replays and out-of-order deliveries leave the state unchanged, even
// when two deliveries of the same event race past the initial read. A
// succeeded payment confirms its order in the same transaction, through the
// order's own authorization rules acting as the system role.
func (h *HandleGatewayEventCommandHandler) Handle(ctx context.Context, cmd HandleGatewayEventCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	event, err := h.gateway.ParseEvent(cmd.Payload(), cmd.Signature())
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("signature", err)
	}

	log := h.logger.With("event_id", event.ID, "event_type", string(event.Type), "intent_id", event.IntentID)

	switch event.Type {
	case ports.GatewayEventPaymentSucceeded, ports.GatewayEventPaymentFailed:
	default:
		log.DebugContext(ctx, "ignoring gateway event")
		return nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PaymentRepository().GetByIntentRef(ctx, event.IntentID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			log.WarnContext(ctx, "gateway event for unknown intent")
			return nil
		}
		return err
	}

	now := time.Now().UTC()
	succeeded := event.Type == ports.GatewayEventPaymentSucceeded

	var changed bool
	if succeeded {
		changed = p.Complete(now)
	} else {
		changed = p.Fail(now)
	}
	if !changed {
		log.InfoContext(ctx, "payment already settled", "payment_status", p.Status().String())
		return nil
	}

	err = uow.PaymentRepository().Update(ctx, p)
	if errors.Is(err, errs.ErrInvalidTransition) {
		log.InfoContext(ctx, "payment settled concurrently")
		return nil
	}
	if err != nil {
		return err
	}

	if succeeded {
		if err = h.confirmOrder(ctx, uow, p.OrderID(), now, log); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	log.InfoContext(ctx, "payment settled", "payment_status", p.Status().String(), "order_id", p.OrderID().String())
	return nil
}

// confirmOrder moves the paid order to Confirmed. An order that can no
// longer be confirmed keeps its status and the captured payment is still
// recorded; the mismatch is logged for manual follow-up.
func (h *HandleGatewayEventCommandHandler) confirmOrder(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	now time.Time,
	log *slog.Logger,
) error {
	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	err = o.TransitionTo(order.Confirmed, kernel.RoleSystem, now)
	if err == nil {
		err = uow.OrderRepository().Update(ctx, o)
	}
	if errors.Is(err, errs.ErrInvalidTransition) {
		log.WarnContext(ctx, "paid order cannot be confirmed",
			"order_id", orderID.String(), "error", err)
		return nil
	}
	return err
}
