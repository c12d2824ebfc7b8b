// Package deliveryrepo persists Delivery aggregates.
package deliveryrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes only over a row that still holds the status and courier the
// delivery was loaded with. A row another writer moved on yields
// InvalidTransitionError.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loadedStatus, loadedCourier := aggregate.Loaded()

	query := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(loadedStatus))
	if loadedCourier == nil {
		query = query.Where("courier_id IS NULL")
	} else {
		query = query.Where("courier_id = ?", loadedCourier.Bytes())
	}

	result := query.
		Updates(map[string]any{
			"courier_id":   dto.CourierID,
			"status":       dto.Status,
			"delivered_at": dto.DeliveredAt,
			"updated_at":   dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var current DeliveryDTO
		if err := r.db.WithContext(ctx).Select("status").First(&current, "id = ?", dto.ID).Error; err != nil {
			return err
		}
		return errs.NewInvalidTransitionError("delivery",
			delivery.Status(current.Status).String(), aggregate.Status().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetFirstAwaitingCourier joins orders so that only paid and accepted orders
// are dispatched.
func (r *GormDeliveryRepository) GetFirstAwaitingCourier(ctx context.Context) (*delivery.Delivery, error) {
	var dto DeliveryDTO
	err := r.db.WithContext(ctx).
		Table("deliveries").
		Select("deliveries.*").
		Joins("JOIN orders ON orders.id = deliveries.order_id").
		Where("deliveries.courier_id IS NULL AND deliveries.status = ?", int(delivery.Pending)).
		Where("orders.status IN ?", []int{int(order.Confirmed), int(order.Preparing)}).
		Order("deliveries.created_at").
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", "awaiting courier")
		}
		return nil, err
	}

	return toDomain(dto)
}
