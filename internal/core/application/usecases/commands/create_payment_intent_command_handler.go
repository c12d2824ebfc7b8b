package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// PaymentSettings is the fixed pricing configuration of checkout.
type PaymentSettings struct {
	Currency    string
	DeliveryFee kernel.Money
}

// PaymentIntentResult is the client-facing outcome of checkout.
type PaymentIntentResult struct {
	PaymentID    kernel.UUID
	ClientSecret string
	CartAmount   kernel.Money
	DeliveryFee  kernel.Money
	Total        kernel.Money
	Currency     string
	Status       payment.Status
}

type CreatePaymentIntentCommandHandler struct {
	uowFactory UoWFactory
	carts      ports.CartClient
	gateway    ports.PaymentGateway
	settings   PaymentSettings
	logger     *slog.Logger
}

func NewCreatePaymentIntentCommandHandler(
	uowFactory UoWFactory,
	carts ports.CartClient,
	gateway ports.PaymentGateway,
	settings PaymentSettings,
	logger *slog.Logger,
) CreatePaymentIntentCommandHandler {
	return CreatePaymentIntentCommandHandler{
		uowFactory: uowFactory,
		carts:      carts,
		gateway:    gateway,
		settings:   settings,
		logger:     logger.With("component", "create_payment_intent"),
	}
}

// Handle prices the cart, opens a gateway intent for the rounded total and
// records a pending Payment.
//
// The cart lookup and the gateway call are required: on failure nothing is
// persisted. An order may hold one non-failed payment: a pending one is
// returned again, a completed or refunded one rejects the request. Racing
// requests share the gateway intent through its idempotency key, and the
// one that loses the insert returns the payment the other recorded.
func (h *CreatePaymentIntentCommandHandler) Handle(
	ctx context.Context,
	cmd CreatePaymentIntentCommand,
) (PaymentIntentResult, error) {
	if err := cmd.Validate(); err != nil {
		return PaymentIntentResult{}, err
	}

	uow := h.uowFactory.Create()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return PaymentIntentResult{}, err
	}
	if !o.IsOwnedBy(cmd.CustomerID()) {
		return PaymentIntentResult{}, errs.NewObjectNotFoundError("order", cmd.OrderID().String())
	}
	if o.Status() != order.Pending {
		return PaymentIntentResult{}, errs.NewInvalidTransitionError("order", o.Status().String(), "paid")
	}

	existing, err := uow.PaymentRepository().GetActiveByOrder(ctx, o.ID())
	switch {
	case err == nil:
		return h.fromExisting(existing)
	case !errors.Is(err, errs.ErrObjectNotFound):
		return PaymentIntentResult{}, err
	}

	cartAmount, err := h.carts.GetCartTotal(ctx, cmd.CustomerID())
	if err != nil {
		return PaymentIntentResult{}, err
	}

	attempts, err := uow.PaymentRepository().CountByOrder(ctx, o.ID())
	if err != nil {
		return PaymentIntentResult{}, err
	}

	total := payment.Total(cartAmount, h.settings.DeliveryFee)
	intent, err := h.gateway.CreateIntent(ctx, ports.IntentRequest{
		AmountMinor: total.MinorUnits(),
		Currency:    h.settings.Currency,
		Metadata: map[string]string{
			"orderId":    o.ID().String(),
			"customerId": cmd.CustomerID(),
		},
		IdempotencyKey: intentKey(o.ID(), attempts+1, total),
	})
	if err != nil {
		return PaymentIntentResult{}, err
	}

	p, err := payment.NewPayment(payment.NewPaymentParams{
		ID:           kernel.NewUUID(),
		OrderID:      o.ID(),
		CustomerID:   cmd.CustomerID(),
		CartAmount:   cartAmount,
		DeliveryFee:  h.settings.DeliveryFee,
		Currency:     h.settings.Currency,
		IntentRef:    intent.ID,
		ClientSecret: intent.ClientSecret,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return PaymentIntentResult{}, err
	}

	if err = uow.Begin(ctx); err != nil {
		return PaymentIntentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err = uow.PaymentRepository().Add(ctx, p)
	if errors.Is(err, payment.ErrAlreadyRecorded) {
		// The failed insert aborts the transaction, so the winner is read
		// outside of it.
		_ = uow.Rollback(ctx)
		return h.recordedConcurrently(ctx, o.ID())
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "payment intent opened but not recorded",
			"order_id", o.ID().String(), "intent_id", intent.ID, "error", err)
		return PaymentIntentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentIntentResult{}, err
	}

	return toPaymentIntentResult(p), nil
}

func (h *CreatePaymentIntentCommandHandler) recordedConcurrently(
	ctx context.Context,
	orderID kernel.UUID,
) (PaymentIntentResult, error) {
	existing, err := h.uowFactory.Create().PaymentRepository().GetActiveByOrder(ctx, orderID)
	if err != nil {
		return PaymentIntentResult{}, err
	}
	h.logger.InfoContext(ctx, "payment recorded by a concurrent request",
		"order_id", orderID.String(), "payment_id", existing.ID().String())
	return h.fromExisting(existing)
}

// intentKey identifies one checkout attempt of an order at the gateway.
// Concurrent requests for the same attempt and amount share one intent.
func intentKey(orderID kernel.UUID, attempt int64, total kernel.Money) string {
	return fmt.Sprintf("order-%s-%d-%d", orderID.String(), attempt, total.MinorUnits())
}

func (h *CreatePaymentIntentCommandHandler) fromExisting(p *payment.Payment) (PaymentIntentResult, error) {
	if p.Status() != payment.Pending {
		return PaymentIntentResult{}, errs.NewInvalidTransitionError("payment", p.Status().String(), payment.Pending.String())
	}
	return toPaymentIntentResult(p), nil
}

func toPaymentIntentResult(p *payment.Payment) PaymentIntentResult {
	return PaymentIntentResult{
		PaymentID:    p.ID(),
		ClientSecret: p.ClientSecret(),
		CartAmount:   p.CartAmount(),
		DeliveryFee:  p.DeliveryFee(),
		Total:        p.Amount(),
		Currency:     p.Currency(),
		Status:       p.Status(),
	}
}
