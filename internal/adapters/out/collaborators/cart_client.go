package collaborators

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type CartClient struct {
	client jsonClient
}

func NewCartClient(baseURL string, timeout time.Duration) *CartClient {
	return &CartClient{client: newJSONClient("cart", baseURL, timeout)}
}

// GetCartTotal treats a missing cart as an upstream failure: a payment must
// never be created for an unknown amount.
func (c *CartClient) GetCartTotal(ctx context.Context, customerID string) (kernel.Money, error) {
	var resp struct {
		Total decimal.Decimal `json:"total"`
	}
	err := c.client.get(ctx, "/carts/"+escape(customerID)+"/total", "cart", customerID, &resp)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return kernel.Money{}, errs.NewUpstreamError("cart", "get cart total", err)
	}
	if err != nil {
		return kernel.Money{}, err
	}

	// A total the cart service should never report is still its fault.
	total, err := kernel.NewMoney(resp.Total)
	if err != nil {
		return kernel.Money{}, errs.NewUpstreamError("cart", "get cart total", err)
	}
	return total, nil
}
