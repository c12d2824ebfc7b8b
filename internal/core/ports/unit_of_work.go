package ports

import (
	"context"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes repositories to one database transaction. Repositories
// obtained before Begin run outside the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	PaymentRepository() PaymentRepository

	DeliveryRepository() DeliveryRepository

	CourierRepository() CourierRepository

	SimulationRepository() SimulationRepository
}
