package queries

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const enrichmentConcurrency = 8

type GetOrderDetailQueryHandler struct {
	db          *gorm.DB
	restaurants ports.RestaurantClient
	timeout     time.Duration
	logger      *slog.Logger
}

// NewGetOrderDetailQueryHandler bounds every enrichment call by timeout.
func NewGetOrderDetailQueryHandler(
	db *gorm.DB,
	restaurants ports.RestaurantClient,
	timeout time.Duration,
	logger *slog.Logger,
) GetOrderDetailQueryHandler {
	return GetOrderDetailQueryHandler{
		db:          db,
		restaurants: restaurants,
		timeout:     timeout,
		logger:      logger.With("component", "order_detail"),
	}
}

func (h GetOrderDetailQueryHandler) Handle(ctx context.Context, query GetOrderDetailQuery) (OrderDetail, error) {
	if err := query.Validate(); err != nil {
		return OrderDetail{}, err
	}

	detail, err := h.loadOrder(ctx, query.orderID)
	if err != nil {
		return OrderDetail{}, err
	}

	notFound := errs.NewObjectNotFoundError("order", query.orderID.String())
	switch query.actor.Role {
	case kernel.RoleCustomer:
		if detail.CustomerID != query.actor.ID {
			return OrderDetail{}, notFound
		}
	case kernel.RoleDeliveryPersonnel:
		carries, carriesErr := h.isCarriedBy(ctx, query.orderID, query.actor.ID)
		if carriesErr != nil {
			return OrderDetail{}, carriesErr
		}
		if !carries {
			return OrderDetail{}, notFound
		}
	case kernel.RoleAdmin, kernel.RoleSystem, kernel.RoleRestaurantAdmin:
	}

	h.enrich(ctx, &detail)

	if query.actor.Role == kernel.RoleRestaurantAdmin {
		// Ownership can only be proven through the restaurant record.
		if detail.Restaurant == nil {
			return OrderDetail{}, errs.NewUpstreamError("restaurant", "verify ownership", errors.Join(detail.Degraded...))
		}
		if detail.Restaurant.OwnerID != query.actor.ID {
			return OrderDetail{}, notFound
		}
	}

	history, err := h.loadHistory(ctx, query.orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	detail.History = history

	return detail, nil
}

// enrich fetches the restaurant and every menu item concurrently. Lookup
// failures degrade the matching field and never fail the request.
func (h GetOrderDetailQueryHandler) enrich(ctx context.Context, detail *OrderDetail) {
	var mu sync.Mutex
	degrade := func(field string, err error) {
		h.logger.WarnContext(ctx, "enrichment lookup failed",
			"order_id", detail.ID.String(), "field", field, "error", err)
		mu.Lock()
		detail.Degraded = append(detail.Degraded, errs.NewDegradedResultError(field, err))
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(enrichmentConcurrency)

	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()

		r, err := h.restaurants.GetRestaurant(callCtx, detail.RestaurantID)
		if err != nil {
			degrade("restaurant", err)
			return nil
		}
		detail.Restaurant = &r
		return nil
	})

	for i := range detail.Items {
		item := &detail.Items[i]
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			m, err := h.restaurants.GetMenuItem(callCtx, item.MenuItemID)
			if err != nil {
				degrade("items."+item.MenuItemID, err)
				return nil
			}
			item.MenuItem = &m
			return nil
		})
	}

	_ = g.Wait()
}

func (h GetOrderDetailQueryHandler) loadOrder(ctx context.Context, orderID kernel.UUID) (OrderDetail, error) {
	var row struct {
		ID            uuid.UUID
		CustomerID    string
		RestaurantID  string
		TotalPrice    decimal.Decimal
		Status        int
		AddressLine   string
		AddressLng    sql.NullFloat64
		AddressLat    sql.NullFloat64
		PaymentMethod string
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			restaurant_id,
			total_price,
			status,
			address_line,
			address_lng,
			address_lat,
			payment_method,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Scan(&row)
	if result.Error != nil {
		return OrderDetail{}, result.Error
	}
	if result.RowsAffected == 0 {
		return OrderDetail{}, errs.NewObjectNotFoundError("order", orderID.String())
	}

	loc, err := nullableLocation(row.AddressLng, row.AddressLat)
	if err != nil {
		return OrderDetail{}, err
	}

	detail := OrderDetail{
		ID:            orderID,
		CustomerID:    row.CustomerID,
		RestaurantID:  row.RestaurantID,
		TotalPrice:    row.TotalPrice,
		Status:        order.Status(row.Status).String(),
		AddressLine:   row.AddressLine,
		Location:      loc,
		PaymentMethod: row.PaymentMethod,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}

	var items []struct {
		MenuItemID string
		Quantity   int
	}
	err = h.db.WithContext(ctx).Raw(`
		SELECT menu_item_id, quantity
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID.Bytes()).Scan(&items).Error
	if err != nil {
		return OrderDetail{}, err
	}
	for _, it := range items {
		detail.Items = append(detail.Items, OrderItemDetail{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}

	return detail, nil
}

func (h GetOrderDetailQueryHandler) loadHistory(ctx context.Context, orderID kernel.UUID) ([]StatusHistoryEntry, error) {
	var rows []struct {
		FromStatus int
		ToStatus   int
		ActorRole  string
		ChangedAt  time.Time
	}
	err := h.db.WithContext(ctx).Raw(`
		SELECT from_status, to_status, actor_role, changed_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY changed_at, to_status
	`, orderID.Bytes()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	history := make([]StatusHistoryEntry, 0, len(rows))
	for _, r := range rows {
		entry := StatusHistoryEntry{
			To:        order.Status(r.ToStatus).String(),
			ActorRole: r.ActorRole,
			ChangedAt: r.ChangedAt.UTC(),
		}
		if from := order.Status(r.FromStatus); from != order.Unknown {
			entry.From = from.String()
		}
		history = append(history, entry)
	}
	return history, nil
}

func (h GetOrderDetailQueryHandler) isCarriedBy(ctx context.Context, orderID kernel.UUID, userID string) (bool, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Table("deliveries").
		Joins("JOIN couriers ON couriers.id = deliveries.courier_id").
		Where("deliveries.order_id = ? AND couriers.user_id = ?", orderID.Bytes(), userID).
		Count(&count).Error
	return count > 0, err
}
