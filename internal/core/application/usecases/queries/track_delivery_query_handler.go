package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type TrackDeliveryQueryHandler struct {
	db *gorm.DB
}

func NewTrackDeliveryQueryHandler(db *gorm.DB) TrackDeliveryQueryHandler {
	return TrackDeliveryQueryHandler{db: db}
}

// Handle filters by owner in SQL, so a foreign delivery and a missing one
// produce the same NotFound.
func (h TrackDeliveryQueryHandler) Handle(ctx context.Context, query TrackDeliveryQuery) (DeliveryTracking, error) {
	if err := query.Validate(); err != nil {
		return DeliveryTracking{}, err
	}

	var row struct {
		Status      int
		DeliveredAt sql.NullTime
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT status, delivered_at
		FROM deliveries
		WHERE id = ? AND customer_id = ?
	`, query.deliveryID.Bytes(), query.customerID).Scan(&row)
	if result.Error != nil {
		return DeliveryTracking{}, result.Error
	}
	if result.RowsAffected == 0 {
		return DeliveryTracking{}, errs.NewObjectNotFoundError("delivery", query.deliveryID.String())
	}

	return DeliveryTracking{
		DeliveryID:   query.deliveryID,
		Status:       delivery.Status(row.Status).String(),
		DeliveryTime: nullableTime(row.DeliveredAt),
	}, nil
}
