// Package paymentrepo persists Payment aggregates.
package paymentrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a payment. A second non-failed payment for the same order, or
// a second row for the same intent, is rejected by the database and
// reported as payment.ErrAlreadyRecorded.
func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %w", payment.ErrAlreadyRecorded, err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the status only while the row still holds the status the
// payment was loaded with; otherwise it returns InvalidTransitionError.
func (r *GormPaymentRepository) Update(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PaymentDTO{}).
		Where("id = ? AND status = ?", dto.ID, aggregate.LoadedStatus().String()).
		Updates(map[string]any{
			"status":     dto.Status,
			"updated_at": dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var current PaymentDTO
		if err := r.db.WithContext(ctx).Select("status").First(&current, "id = ?", dto.ID).Error; err != nil {
			return err
		}
		return errs.NewInvalidTransitionError("payment", current.Status, dto.Status)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// CountByOrder counts every payment attempt of an order, failed ones
// included.
func (r *GormPaymentRepository) CountByOrder(ctx context.Context, orderID kernel.UUID) (int64, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}

	var n int64
	err := r.db.WithContext(ctx).Model(&PaymentDTO{}).Where("order_id = ?", orderID.Bytes()).Count(&n).Error
	return n, err
}

func (r *GormPaymentRepository) GetByIntentRef(ctx context.Context, intentRef string) (*payment.Payment, error) {
	if intentRef == "" {
		return nil, errs.NewValueIsRequiredError("intentRef")
	}

	var dto PaymentDTO
	if err := r.db.WithContext(ctx).First(&dto, "intent_ref = ?", intentRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment", intentRef)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormPaymentRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto PaymentDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status <> ?", orderID.Bytes(), payment.Failed.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
