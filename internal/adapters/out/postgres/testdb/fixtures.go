package testdb

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Now is the fixed clock of persistence fixtures, truncated to what every
// supported dialect stores.
var Now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// MockAggregateTracker records the aggregates a repository reports.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// PlacedOrder returns a freshly placed card order for customerID holding
// two line items.
func PlacedOrder(t *testing.T, customerID, restaurantID string) *order.Order {
	t.Helper()

	first, err := order.NewItem("M1", 2)
	require.NoError(t, err)
	second, err := order.NewItem("M2", 1)
	require.NoError(t, err)

	loc := kernel.MustNewLocation(79.86, 6.91)
	address, err := order.NewAddress("12 Galle Rd, Colombo", &loc)
	require.NoError(t, err)

	o, err := order.NewOrder(order.PlaceOrderParams{
		ID:              kernel.NewUUID(),
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		Items:           []order.Item{first, second},
		TotalPrice:      kernel.MustNewMoney("1250.50"),
		DeliveryAddress: address,
		PaymentMethod:   order.PaymentMethodCard,
		CardReference:   "pm_card",
		PlacedAt:        Now,
	})
	require.NoError(t, err)
	return o
}

// ApprovedCourier returns an approved, available courier positioned at loc.
func ApprovedCourier(t *testing.T, userID string, loc *kernel.Location) *courier.Courier {
	t.Helper()

	var locatedAt *time.Time
	if loc != nil {
		at := Now
		locatedAt = &at
	}
	c, err := courier.RestoreCourier(courier.RestoreParams{
		ID:             kernel.NewUUID(),
		UserID:         userID,
		Vehicle:        "bike",
		ApprovalStatus: courier.ApprovalApproved,
		Available:      true,
		Location:       loc,
		LocatedAt:      locatedAt,
		Rating:         4.5,
		CreatedAt:      Now,
	})
	require.NoError(t, err)
	return c
}
