package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

type Restaurant struct {
	ID      string
	Name    string
	OwnerID string
	// Location is nil when the restaurant has not published coordinates.
	Location *kernel.Location
}

type MenuItem struct {
	ID       string
	Name     string
	Price    kernel.Money
	ImageURL string
}

// RestaurantClient reads restaurants and menu items. A missing entity is
// reported as errs.ObjectNotFoundError, any other failure as errs.UpstreamError.
type RestaurantClient interface {
	GetRestaurant(ctx context.Context, id string) (Restaurant, error)
	GetMenuItem(ctx context.Context, id string) (MenuItem, error)
}

// CartClient returns the current cart total of a customer.
type CartClient interface {
	GetCartTotal(ctx context.Context, customerID string) (kernel.Money, error)
}

type User struct {
	ID    string
	Email string
	Phone string
	Role  string
}

type IdentityClient interface {
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUserRole(ctx context.Context, id string, role kernel.Role) error
}
