// Package notificationrepo stores the outcome of each notification send.
package notificationrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        string    `gorm:"size:64;not null;index"`
	Channel       string    `gorm:"size:16;not null"`
	Target        string    `gorm:"size:255;not null"`
	Message       string    `gorm:"type:text;not null"`
	Status        string    `gorm:"size:16;not null;index"`
	FailureReason string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

// GormNotificationRepository writes outside any unit of work: each record is
// independent of the business transaction that caused it.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := NotificationDTO{
		ID:            n.ID().Bytes(),
		UserID:        n.UserID(),
		Channel:       n.Channel().String(),
		Target:        n.Target(),
		Message:       n.Message(),
		Status:        string(n.Status()),
		FailureReason: n.FailureReason(),
		CreatedAt:     n.CreatedAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
