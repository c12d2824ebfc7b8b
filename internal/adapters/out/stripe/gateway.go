// Package stripe implements ports.PaymentGateway on top of the Stripe API.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	stripeapi "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

var ErrWebhookSecretIsRequired = errors.New("stripe webhook secret is required")

type Config struct {
	APIKey string
	// WebhookSecret is the endpoint signing secret (whsec_...). It is never
	// the API key.
	WebhookSecret string
	Timeout       time.Duration
	// BaseURL overrides the API endpoint, used by tests and stripe-mock.
	BaseURL string
}

type Gateway struct {
	api           *client.API
	webhookSecret string
}

func NewGateway(cfg Config, logger *slog.Logger) (*Gateway, error) {
	if cfg.WebhookSecret == "" {
		return nil, ErrWebhookSecretIsRequired
	}
	if cfg.WebhookSecret == cfg.APIKey {
		return nil, errs.NewValueIsInvalidErrorWithCause("webhookSecret", errors.New("must differ from the API key"))
	}

	backendCfg := &stripeapi.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		LeveledLogger:     leveledLogger{logger: logger.With("component", "stripe")},
		MaxNetworkRetries: stripeapi.Int64(0),
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripeapi.String(cfg.BaseURL)
	}

	api := client.New(cfg.APIKey, &stripeapi.Backends{
		API:     stripeapi.GetBackendWithConfig(stripeapi.APIBackend, backendCfg),
		Uploads: stripeapi.GetBackendWithConfig(stripeapi.UploadsBackend, backendCfg),
	})

	return &Gateway{api: api, webhookSecret: cfg.WebhookSecret}, nil
}

// CreateIntent opens a PaymentIntent. The idempotency key is forwarded to
// Stripe, which answers a repeated key with the intent it created first.
func (g *Gateway) CreateIntent(ctx context.Context, req ports.IntentRequest) (ports.PaymentIntent, error) {
	params := &stripeapi.PaymentIntentParams{
		Amount:   stripeapi.Int64(req.AmountMinor),
		Currency: stripeapi.String(req.Currency),
		AutomaticPaymentMethods: &stripeapi.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripeapi.Bool(true),
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return ports.PaymentIntent{}, errs.NewUpstreamError("stripe", "create payment intent", err)
	}
	return ports.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *Gateway) Refund(ctx context.Context, intentID string) error {
	params := &stripeapi.RefundParams{PaymentIntent: stripeapi.String(intentID)}
	params.Context = ctx

	if _, err := g.api.Refunds.New(params); err != nil {
		return errs.NewUpstreamError("stripe", "refund", err)
	}
	return nil
}

// ParseEvent checks the Stripe-Signature header against the webhook secret
// and extracts the payment intent id for payment_intent.* events.
func (g *Gateway) ParseEvent(payload []byte, signature string) (ports.GatewayEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return ports.GatewayEvent{}, fmt.Errorf("verify stripe event: %w", err)
	}

	out := ports.GatewayEvent{ID: event.ID, Type: ports.GatewayEventType(event.Type)}

	switch out.Type {
	case ports.GatewayEventPaymentSucceeded, ports.GatewayEventPaymentFailed:
		var pi stripeapi.PaymentIntent
		if err = json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return ports.GatewayEvent{}, fmt.Errorf("decode payment intent: %w", err)
		}
		if pi.ID == "" {
			return ports.GatewayEvent{}, errs.NewValueIsRequiredError("data.object.id")
		}
		out.IntentID = pi.ID
	}

	return out, nil
}

type leveledLogger struct {
	logger *slog.Logger
}

func (l leveledLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l leveledLogger) Infof(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l leveledLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l leveledLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
