package stripe_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/stripe"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74/webhook"
)

const webhookSecret = "whsec_test_secret"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGateway(t *testing.T, baseURL string) *stripe.Gateway {
	t.Helper()
	g, err := stripe.NewGateway(stripe.Config{
		APIKey:        "sk_test_123",
		WebhookSecret: webhookSecret,
		Timeout:       2 * time.Second,
		BaseURL:       baseURL,
	}, discardLogger())
	require.NoError(t, err)
	return g
}

func signed(t *testing.T, body map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	})
	return sp.Payload, sp.Header
}

func TestNewGateway_RequiresDedicatedWebhookSecret(t *testing.T) {
	_, err := stripe.NewGateway(stripe.Config{APIKey: "sk_test"}, discardLogger())
	require.ErrorIs(t, err, stripe.ErrWebhookSecretIsRequired)

	_, err = stripe.NewGateway(stripe.Config{APIKey: "sk_test", WebhookSecret: "sk_test"}, discardLogger())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGateway_ParseEvent(t *testing.T) {
	g := newGateway(t, "")

	t.Run("succeeded", func(t *testing.T) {
		payload, header := signed(t, map[string]any{
			"id":     "evt_1",
			"object": "event",
			"type":   "payment_intent.succeeded",
			"data":   map[string]any{"object": map[string]any{"id": "pi_1", "object": "payment_intent"}},
		})

		event, err := g.ParseEvent(payload, header)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, ports.GatewayEventPaymentSucceeded, event.Type)
		assert.Equal(t, "pi_1", event.IntentID)
	})

	t.Run("other_type_has_no_intent", func(t *testing.T) {
		payload, header := signed(t, map[string]any{
			"id":     "evt_2",
			"object": "event",
			"type":   "charge.refunded",
			"data":   map[string]any{"object": map[string]any{"id": "ch_1", "object": "charge"}},
		})

		event, err := g.ParseEvent(payload, header)
		require.NoError(t, err)
		assert.Equal(t, ports.GatewayEventType("charge.refunded"), event.Type)
		assert.Empty(t, event.IntentID)
	})

	t.Run("bad_signature", func(t *testing.T) {
		payload, _ := signed(t, map[string]any{"id": "evt_3", "object": "event", "type": "payment_intent.succeeded"})
		_, err := g.ParseEvent(payload, "t=1,v1=deadbeef")
		require.Error(t, err)
	})

	t.Run("tampered_payload", func(t *testing.T) {
		_, header := signed(t, map[string]any{"id": "evt_4", "object": "event", "type": "payment_intent.payment_failed"})
		_, err := g.ParseEvent([]byte(`{"id":"evt_4","type":"payment_intent.succeeded"}`), header)
		require.Error(t, err)
	})
}

func TestGateway_CreateIntentAndRefund(t *testing.T) {
	var intentForm, refundForm url.Values
	var idempotencyKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/payment_intents":
			intentForm = r.PostForm
			idempotencyKey = r.Header.Get("Idempotency-Key")
			_, _ = io.WriteString(w, `{"id":"pi_42","object":"payment_intent","client_secret":"pi_42_secret"}`)
		case "/v1/refunds":
			refundForm = r.PostForm
			_, _ = io.WriteString(w, `{"id":"re_1","object":"refund","status":"succeeded"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"type":"invalid_request_error","message":"no such route"}}`)
		}
	}))
	t.Cleanup(srv.Close)
	g := newGateway(t, srv.URL)

	intent, err := g.CreateIntent(t.Context(), ports.IntentRequest{
		AmountMinor:    115000,
		Currency:       "usd",
		Metadata:       map[string]string{"order_id": "o-1"},
		IdempotencyKey: "order-o-1-1-115000",
	})
	require.NoError(t, err)
	assert.Equal(t, "order-o-1-1-115000", idempotencyKey)
	assert.Equal(t, "pi_42", intent.ID)
	assert.Equal(t, "pi_42_secret", intent.ClientSecret)
	assert.Equal(t, "115000", intentForm.Get("amount"))
	assert.Equal(t, "usd", intentForm.Get("currency"))
	assert.Equal(t, "o-1", intentForm.Get("metadata[order_id]"))

	require.NoError(t, g.Refund(t.Context(), "pi_42"))
	assert.Equal(t, "pi_42", refundForm.Get("payment_intent"))
}

func TestGateway_CreateIntent_DeclinedIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"error":{"type":"card_error","code":"card_declined","message":"declined"}}`)
	}))
	t.Cleanup(srv.Close)

	_, err := newGateway(t, srv.URL).CreateIntent(t.Context(), ports.IntentRequest{AmountMinor: 100, Currency: "usd"})
	require.ErrorIs(t, err, errs.ErrUpstream)
}
