package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type TrackOrderQueryHandler struct {
	db *gorm.DB
}

func NewTrackOrderQueryHandler(db *gorm.DB) TrackOrderQueryHandler {
	return TrackOrderQueryHandler{db: db}
}

func (h TrackOrderQueryHandler) Handle(ctx context.Context, query TrackOrderQuery) (OrderTracking, error) {
	if err := query.Validate(); err != nil {
		return OrderTracking{}, err
	}

	var row struct {
		OrderStatus    int
		DeliveryStatus sql.NullInt64
		DeliveredAt    sql.NullTime
		LocationLng    sql.NullFloat64
		LocationLat    sql.NullFloat64
		LocatedAt      sql.NullTime
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			o.status AS order_status,
			d.status AS delivery_status,
			d.delivered_at,
			c.location_lng,
			c.location_lat,
			c.located_at
		FROM orders o
		LEFT JOIN deliveries d ON d.order_id = o.id
		LEFT JOIN couriers c ON c.id = d.courier_id
		WHERE o.id = ? AND o.customer_id = ?
	`, query.orderID.Bytes(), query.customerID).Scan(&row)
	if result.Error != nil {
		return OrderTracking{}, result.Error
	}
	if result.RowsAffected == 0 {
		return OrderTracking{}, errs.NewObjectNotFoundError("order", query.orderID.String())
	}

	orderStatus := order.Status(row.OrderStatus)
	tracking := OrderTracking{
		OrderID:      query.orderID,
		OrderStatus:  orderStatus.String(),
		Status:       orderStatus.String(),
		DeliveryTime: nullableTime(row.DeliveredAt),
	}

	if row.DeliveryStatus.Valid {
		ds := delivery.Status(row.DeliveryStatus.Int64)
		tracking.DeliveryStatus = ds.String()
		if mapped, ok := ds.OrderStatus(); ok && !orderStatus.IsFinal() {
			tracking.Status = mapped.String()
		}

		loc, err := nullableLocation(row.LocationLng, row.LocationLat)
		if err != nil {
			return OrderTracking{}, err
		}
		tracking.CourierLocation = loc
		tracking.LocatedAt = nullableTime(row.LocatedAt)
	}

	return tracking, nil
}
