package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetCourierLocationQueryHandler struct {
	db *gorm.DB
}

func NewGetCourierLocationQueryHandler(db *gorm.DB) GetCourierLocationQueryHandler {
	return GetCourierLocationQueryHandler{db: db}
}

// Handle returns NotFound until the order has a courier that has reported
// at least one position.
func (h GetCourierLocationQueryHandler) Handle(ctx context.Context, query GetCourierLocationQuery) (CourierLocation, error) {
	if err := query.Validate(); err != nil {
		return CourierLocation{}, err
	}

	var row struct {
		CourierID   uuid.UUID
		LocationLng sql.NullFloat64
		LocationLat sql.NullFloat64
		LocatedAt   sql.NullTime
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id AS courier_id,
			c.location_lng,
			c.location_lat,
			c.located_at
		FROM deliveries d
		JOIN couriers c ON c.id = d.courier_id
		WHERE d.order_id = ? AND d.customer_id = ?
	`, query.orderID.Bytes(), query.customerID).Scan(&row)
	if result.Error != nil {
		return CourierLocation{}, result.Error
	}

	notFound := errs.NewObjectNotFoundError("courier location", query.orderID.String())
	if result.RowsAffected == 0 {
		return CourierLocation{}, notFound
	}

	loc, err := nullableLocation(row.LocationLng, row.LocationLat)
	if err != nil {
		return CourierLocation{}, err
	}
	if loc == nil || !row.LocatedAt.Valid {
		return CourierLocation{}, notFound
	}

	courierID, err := kernel.UUIDFromBytes(row.CourierID[:])
	if err != nil {
		return CourierLocation{}, err
	}

	return CourierLocation{
		CourierID: courierID,
		Location:  *loc,
		LocatedAt: row.LocatedAt.Time.UTC(),
	}, nil
}
