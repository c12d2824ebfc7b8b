package ports

import (
	"context"
)

// IntentRequest opens a payment intent. Requests that share an
// IdempotencyKey are answered with the same intent.
type IntentRequest struct {
	AmountMinor    int64
	Currency       string
	Metadata       map[string]string
	IdempotencyKey string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type GatewayEventType string

const (
	GatewayEventPaymentSucceeded GatewayEventType = "payment_intent.succeeded"
	GatewayEventPaymentFailed    GatewayEventType = "payment_intent.payment_failed"
)

// GatewayEvent is a verified asynchronous gateway callback.
type GatewayEvent struct {
	ID       string
	Type     GatewayEventType
	IntentID string
}

// PaymentGateway is the capture/refund contract of the external payment
// provider. Amounts are in minor currency units.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (PaymentIntent, error)
	Refund(ctx context.Context, intentID string) error
	// ParseEvent verifies the signature and decodes the event. Any
	// verification failure is returned as an error.
	ParseEvent(payload []byte, signature string) (GatewayEvent, error)
}
