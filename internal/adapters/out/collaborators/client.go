// Package collaborators holds the HTTP clients of the Restaurant, Cart and
// Identity services. They carry no business logic: a 404 becomes
// errs.ObjectNotFoundError, every other failure errs.UpstreamError.
package collaborators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
)

const maxErrorBody = 512

type jsonClient struct {
	service string
	baseURL string
	http    *http.Client
}

func newJSONClient(service, baseURL string, timeout time.Duration) jsonClient {
	return jsonClient{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// get decodes the JSON body of GET path into out. entity and id name the
// looked-up object in a NotFound error.
func (c jsonClient) get(ctx context.Context, path, entity, id string, out any) error {
	return c.do(ctx, http.MethodGet, path, entity, id, nil, out)
}

func (c jsonClient) put(ctx context.Context, path, entity, id string, body any) error {
	return c.do(ctx, http.MethodPut, path, entity, id, body, nil)
}

func (c jsonClient) do(ctx context.Context, method, path, entity, id string, body, out any) error {
	operation := strings.ToLower(method) + " " + entity

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errs.NewUpstreamError(c.service, operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errs.NewUpstreamError(c.service, operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.NewUpstreamError(c.service, operation, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.NewObjectNotFoundError(entity, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errs.NewUpstreamError(c.service, operation,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.NewUpstreamError(c.service, operation, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
