package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/pkg/errs"
)

// HTTPSender posts messages to an SMS or WhatsApp gateway as
// {"channel", "to", "message"} JSON. Any 2xx answer counts as sent.
type HTTPSender struct {
	channel string
	url     string
	http    *http.Client
}

func NewHTTPSender(channel, url string, timeout time.Duration) *HTTPSender {
	return &HTTPSender{
		channel: channel,
		url:     url,
		http:    &http.Client{Timeout: timeout},
	}
}

type gatewayMessage struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Message string `json:"message"`
}

func (s *HTTPSender) Send(ctx context.Context, target, _, message string) error {
	if target == "" {
		return errs.NewValueIsRequiredError("phone")
	}

	body, err := json.Marshal(gatewayMessage{Channel: s.channel, To: target, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return errs.NewUpstreamError(s.channel+" gateway", "send", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewUpstreamError(s.channel+" gateway", "send", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}
