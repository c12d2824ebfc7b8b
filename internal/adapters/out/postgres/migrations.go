package postgres

import (
	"fulfillment/internal/adapters/out/postgres/courierrepo"
	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/paymentrepo"
	"fulfillment/internal/adapters/out/postgres/simulationrepo"

	"gorm.io/gorm"
)

// Models lists every persisted table in dependency order.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.StatusHistoryDTO{},
		&paymentrepo.PaymentDTO{},
		&courierrepo.CourierDTO{},
		&deliveryrepo.DeliveryDTO{},
		&simulationrepo.SimulationDTO{},
		&notificationrepo.NotificationDTO{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
