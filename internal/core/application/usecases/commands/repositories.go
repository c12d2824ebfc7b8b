package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	SimulationRepoFactory interface {
		SimulationRepository() ports.SimulationRepository
	}

	UoW interface {
		TxManager
		OrderRepoFactory
		PaymentRepoFactory
		DeliveryRepoFactory
		CourierRepoFactory
		SimulationRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
