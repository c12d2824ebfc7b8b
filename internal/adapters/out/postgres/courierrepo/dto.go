// Package courierrepo persists courier profiles and their last reported
// position.
package courierrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type CourierDTO struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID         string      `gorm:"size:64;not null;uniqueIndex"`
	Vehicle        string      `gorm:"size:64;not null"`
	ApprovalStatus string      `gorm:"size:16;not null;index"`
	Available      bool        `gorm:"not null;index"`
	Location       LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	LocatedAt      *time.Time
	Rating         float64   `gorm:"not null;default:0"`
	DeliveryCount  int       `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

// LocationDTO is the last reported point. Both columns are null until the
// first report.
type LocationDTO struct {
	Lng *float64
	Lat *float64
}

func fromDomain(c *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:             c.ID().Bytes(),
		UserID:         c.UserID(),
		Vehicle:        c.Vehicle(),
		ApprovalStatus: c.ApprovalStatus().String(),
		Available:      c.IsAvailable(),
		LocatedAt:      c.LocatedAt(),
		Rating:         c.Rating(),
		DeliveryCount:  c.DeliveryCount(),
		CreatedAt:      c.CreatedAt(),
	}

	if loc, ok := c.Location(); ok {
		lng, lat := loc.Longitude(), loc.Latitude()
		dto.Location = LocationDTO{Lng: &lng, Lat: &lat}
	}

	return dto
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := courier.ParseApprovalStatus(dto.ApprovalStatus)
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Location.Lng != nil && dto.Location.Lat != nil {
		loc, locErr := kernel.NewLocation(*dto.Location.Lng, *dto.Location.Lat)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return courier.RestoreCourier(courier.RestoreParams{
		ID:             id,
		UserID:         dto.UserID,
		Vehicle:        dto.Vehicle,
		ApprovalStatus: status,
		Available:      dto.Available,
		Location:       location,
		LocatedAt:      dto.LocatedAt,
		Rating:         dto.Rating,
		DeliveryCount:  dto.DeliveryCount,
		CreatedAt:      dto.CreatedAt,
	})
}
