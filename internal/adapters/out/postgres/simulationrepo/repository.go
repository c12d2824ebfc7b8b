// Package simulationrepo persists movement simulations. A simulation is
// active while step < total_steps.
package simulationrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/simulation"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormSimulationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormSimulationRepository(db *gorm.DB, tracker aggregateTracker) *GormSimulationRepository {
	return &GormSimulationRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormSimulationRepository) Add(ctx context.Context, aggregate *simulation.Simulation) error {
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

func (r *GormSimulationRepository) Update(ctx context.Context, aggregate *simulation.Simulation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&SimulationDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"step":       dto.Step,
			"updated_at": dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormSimulationRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*simulation.Simulation, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto SimulationDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND step < total_steps", orderID.Bytes()).
		Order("created_at DESC").
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("simulation", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormSimulationRepository) GetAllActive(ctx context.Context) ([]*simulation.Simulation, error) {
	var dtos []SimulationDTO
	if err := r.db.WithContext(ctx).Where("step < total_steps").Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}

	active := make([]*simulation.Simulation, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		active = append(active, s)
	}

	return active, nil
}
