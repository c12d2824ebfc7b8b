package queries

import (
	"context"
	"database/sql"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListCouriersQueryHandler struct {
	db *gorm.DB
}

func NewListCouriersQueryHandler(db *gorm.DB) ListCouriersQueryHandler {
	return ListCouriersQueryHandler{db: db}
}

// Handle returns couriers in registration order.
func (h ListCouriersQueryHandler) Handle(ctx context.Context, query ListCouriersQuery) ([]CourierView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]CourierView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			vehicle,
			approval_status,
			available,
			location_lng,
			location_lat,
			located_at,
			rating,
			delivery_count
		FROM couriers
		WHERE ? = '' OR approval_status = ?
		ORDER BY created_at
	`, query.approval.String(), query.approval.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var view CourierView
		var id uuid.UUID
		var lng, lat sql.NullFloat64
		var locatedAt sql.NullTime

		err = rows.Scan(
			&id,
			&view.UserID,
			&view.Vehicle,
			&view.ApprovalStatus,
			&view.Available,
			&lng,
			&lat,
			&locatedAt,
			&view.Rating,
			&view.DeliveryCount,
		)
		if err != nil {
			return nil, err
		}

		courierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		view.ID = courierID

		loc, locErr := nullableLocation(lng, lat)
		if locErr != nil {
			return nil, locErr
		}
		view.Location = loc
		view.LocatedAt = nullableTime(locatedAt)

		couriers = append(couriers, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}

func nullableLocation(lng, lat sql.NullFloat64) (*kernel.Location, error) {
	if !lng.Valid || !lat.Valid {
		return nil, nil
	}
	loc, err := kernel.NewLocation(lng.Float64, lat.Float64)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	at := t.Time.UTC()
	return &at
}
