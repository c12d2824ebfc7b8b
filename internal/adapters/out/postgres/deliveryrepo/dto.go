package deliveryrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type DeliveryDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID  string     `gorm:"size:64;not null;index"`
	CourierID   *uuid.UUID `gorm:"type:uuid;index"`
	Status      int        `gorm:"not null;index"`
	DeliveredAt *time.Time
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	var courierID *uuid.UUID
	if id := d.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	return DeliveryDTO{
		ID:          d.ID().Bytes(),
		OrderID:     d.OrderID().Bytes(),
		CustomerID:  d.CustomerID(),
		CourierID:   courierID,
		Status:      int(d.Status()),
		DeliveredAt: d.DeliveredAt(),
		CreatedAt:   d.CreatedAt(),
		UpdatedAt:   d.UpdatedAt(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	return delivery.RestoreDelivery(
		id,
		orderID,
		dto.CustomerID,
		courierID,
		delivery.Status(dto.Status),
		dto.DeliveredAt,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
