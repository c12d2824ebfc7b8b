package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderDetailQueryIsNotConstructed = errors.New(
	"GetOrderDetailQuery must be created via NewGetOrderDetailQuery constructor",
)

type GetOrderDetailQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor
	guard   guard.ConstructorGuard
}

func NewGetOrderDetailQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderDetailQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderDetailQuery{}, err
	}
	if _, err := kernel.NewActor(actor.ID, actor.Role); err != nil {
		return GetOrderDetailQuery{}, err
	}

	return GetOrderDetailQuery{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderDetailQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailQueryIsNotConstructed)
}

// OrderDetail is an order enriched with live restaurant and menu data.
// Restaurant and MenuItem are nil when their lookup failed; each failure is
// listed in Degraded.
type OrderDetail struct {
	ID            kernel.UUID
	CustomerID    string
	RestaurantID  string
	Restaurant    *ports.Restaurant
	Items         []OrderItemDetail
	TotalPrice    decimal.Decimal
	Status        string
	AddressLine   string
	Location      *kernel.Location
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	History       []StatusHistoryEntry
	Degraded      []error
}

type OrderItemDetail struct {
	MenuItemID string
	Quantity   int
	MenuItem   *ports.MenuItem
}

type StatusHistoryEntry struct {
	From      string
	To        string
	ActorRole string
	ChangedAt time.Time
}
