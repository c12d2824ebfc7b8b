package simulationrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/simulation"

	"github.com/google/uuid"
)

type SimulationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CourierID  uuid.UUID `gorm:"type:uuid;not null"`
	FromLng    float64   `gorm:"not null"`
	FromLat    float64   `gorm:"not null"`
	ToLng      float64   `gorm:"not null"`
	ToLat      float64   `gorm:"not null"`
	Step       int       `gorm:"not null"`
	TotalSteps int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (SimulationDTO) TableName() string {
	return "movement_simulations"
}

func fromDomain(s *simulation.Simulation) SimulationDTO {
	return SimulationDTO{
		ID:         s.ID().Bytes(),
		OrderID:    s.OrderID().Bytes(),
		CourierID:  s.CourierID().Bytes(),
		FromLng:    s.From().Longitude(),
		FromLat:    s.From().Latitude(),
		ToLng:      s.To().Longitude(),
		ToLat:      s.To().Latitude(),
		Step:       s.Step(),
		TotalSteps: s.TotalSteps(),
		CreatedAt:  s.CreatedAt(),
		UpdatedAt:  s.UpdatedAt(),
	}
}

func toDomain(dto SimulationDTO) (*simulation.Simulation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	from, err := kernel.NewLocation(dto.FromLng, dto.FromLat)
	if err != nil {
		return nil, err
	}
	to, err := kernel.NewLocation(dto.ToLng, dto.ToLat)
	if err != nil {
		return nil, err
	}

	return simulation.RestoreSimulation(simulation.Params{
		ID:         id,
		OrderID:    orderID,
		CourierID:  courierID,
		From:       from,
		To:         to,
		TotalSteps: dto.TotalSteps,
		CreatedAt:  dto.CreatedAt,
	}, dto.Step, dto.UpdatedAt)
}
