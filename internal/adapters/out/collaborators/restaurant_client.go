package collaborators

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type RestaurantClient struct {
	client jsonClient
}

func NewRestaurantClient(baseURL string, timeout time.Duration) *RestaurantClient {
	return &RestaurantClient{client: newJSONClient("restaurant", baseURL, timeout)}
}

type restaurantResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	OwnerID  string `json:"ownerId"`
	Location *struct {
		Longitude float64 `json:"longitude"`
		Latitude  float64 `json:"latitude"`
	} `json:"location"`
}

type menuItemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

func (c *RestaurantClient) GetRestaurant(ctx context.Context, id string) (ports.Restaurant, error) {
	var resp restaurantResponse
	if err := c.client.get(ctx, "/restaurants/"+escape(id), "restaurant", id, &resp); err != nil {
		return ports.Restaurant{}, err
	}

	r := ports.Restaurant{ID: resp.ID, Name: resp.Name, OwnerID: resp.OwnerID}
	if resp.Location != nil {
		loc, err := kernel.NewLocation(resp.Location.Longitude, resp.Location.Latitude)
		if err != nil {
			return ports.Restaurant{}, errs.NewUpstreamError("restaurant", "get restaurant", err)
		}
		r.Location = &loc
	}
	return r, nil
}

func (c *RestaurantClient) GetMenuItem(ctx context.Context, id string) (ports.MenuItem, error) {
	var resp menuItemResponse
	if err := c.client.get(ctx, "/menu-items/"+escape(id), "menu item", id, &resp); err != nil {
		return ports.MenuItem{}, err
	}

	price, err := kernel.NewMoney(resp.Price)
	if err != nil {
		return ports.MenuItem{}, errs.NewUpstreamError("restaurant", "get menu item", err)
	}
	return ports.MenuItem{ID: resp.ID, Name: resp.Name, Price: price, ImageURL: resp.ImageURL}, nil
}
