package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type RefundPaymentCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
}

func NewRefundPaymentCommandHandler(uowFactory UoWFactory, gateway ports.PaymentGateway) RefundPaymentCommandHandler {
	return RefundPaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// Handle refunds the completed payment of an order. The gateway refund is
// issued first and the payment is marked refunded only once the gateway has
// accepted it. No completed payment means ObjectNotFoundError.
func (h *RefundPaymentCommandHandler) Handle(ctx context.Context, cmd RefundPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()

	p, err := h.completedPayment(ctx, uow, cmd)
	if err != nil {
		return err
	}

	if err = h.gateway.Refund(ctx, p.IntentRef()); err != nil {
		return err
	}

	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err = h.completedPayment(ctx, uow, cmd)
	if err != nil {
		return err
	}

	if err = p.Refund(time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *RefundPaymentCommandHandler) completedPayment(
	ctx context.Context,
	uow UoW,
	cmd RefundPaymentCommand,
) (*payment.Payment, error) {
	p, err := uow.PaymentRepository().GetActiveByOrder(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if p.Status() != payment.Completed {
		return nil, errs.NewObjectNotFoundErrorWithCause("payment", cmd.OrderID().String(),
			errors.New("no completed payment for order"))
	}
	return p, nil
}
