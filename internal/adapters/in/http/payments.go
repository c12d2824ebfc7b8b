package http

import (
	"io"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const (
	signatureHeader     = "Stripe-Signature"
	maxWebhookBodyBytes = 64 << 10
)

// CreatePayment handles POST /api/v1/payments.
func (s *Server) CreatePayment(c echo.Context) error {
	customerID, err := customerOf(c, "pay for orders")
	if err != nil {
		return err
	}

	var req CreatePaymentRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreatePaymentIntentCommand(orderID, customerID)
	if err != nil {
		return err
	}
	result, err := s.h.CreatePaymentIntent.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, paymentIntent(result))
}

// GetPaymentStatus handles GET /api/v1/payments/:orderId.
func (s *Server) GetPaymentStatus(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	status, err := s.paymentStatus(c, orderID, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

// RefundPayment handles POST /api/v1/payments/:orderId/refund and answers
// with the refunded payment.
func (s *Server) RefundPayment(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewRefundPaymentCommand(orderID, actor)
	if err != nil {
		return err
	}
	if err = s.h.RefundPayment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	status, err := s.paymentStatus(c, orderID, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

func (s *Server) paymentStatus(c echo.Context, orderID kernel.UUID, actor kernel.Actor) (PaymentStatusResponse, error) {
	query, err := queries.NewGetPaymentStatusQuery(orderID, actor)
	if err != nil {
		return PaymentStatusResponse{}, err
	}
	status, err := s.h.GetPaymentStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return PaymentStatusResponse{}, err
	}
	return paymentStatus(status), nil
}

// PaymentWebhook handles POST /api/v1/payments/webhook. It is authenticated
// by the gateway signature only. A bad signature is a 400 so the gateway
// does not keep retrying a forged request.
func (s *Server) PaymentWebhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBodyBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body").SetInternal(err)
	}

	cmd, err := commands.NewHandleGatewayEventCommand(payload, c.Request().Header.Get(signatureHeader))
	if err != nil {
		return err
	}
	if err = s.h.HandleGatewayEvent.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
