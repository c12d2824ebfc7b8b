package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db          *gorm.DB
	restaurants ports.RestaurantClient
}

func NewListOrdersQueryHandler(db *gorm.DB, restaurants ports.RestaurantClient) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db, restaurants: restaurants}
}

// Handle verifies restaurant ownership for restaurant admins through the
// Restaurant collaborator; that lookup is required, so its failure aborts.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if query.actor.Role == kernel.RoleRestaurantAdmin {
		r, err := h.restaurants.GetRestaurant(ctx, query.restaurantID)
		if err != nil {
			return nil, err
		}
		if r.OwnerID != query.actor.ID {
			return nil, errs.NewForbiddenError(query.actor.Role.String(), "list orders of restaurant "+query.restaurantID)
		}
	}

	tx := h.db.WithContext(ctx).
		Table("orders").
		Select("id, customer_id, restaurant_id, total_price, status, created_at")
	if query.actor.Role == kernel.RoleCustomer {
		tx = tx.Where("customer_id = ?", query.actor.ID)
	}
	if query.restaurantID != "" {
		tx = tx.Where("restaurant_id = ?", query.restaurantID)
	}

	rows, err := tx.Order("created_at DESC").Limit(query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderSummary, 0)
	for rows.Next() {
		var summary OrderSummary
		var id uuid.UUID
		var total decimal.Decimal
		var status int
		var createdAt time.Time

		if err = rows.Scan(&id, &summary.CustomerID, &summary.RestaurantID, &total, &status, &createdAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		summary.ID = orderID
		summary.TotalPrice = total
		summary.Status = order.Status(status).String()
		summary.CreatedAt = createdAt.UTC()

		orders = append(orders, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
