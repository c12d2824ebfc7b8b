package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/simulation"
)

type SimulationRepository interface {
	Add(ctx context.Context, aggregate *simulation.Simulation) error

	Update(ctx context.Context, aggregate *simulation.Simulation) error

	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*simulation.Simulation, error)

	GetAllActive(ctx context.Context) ([]*simulation.Simulation, error)
}
