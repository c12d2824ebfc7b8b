package paymentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDTO stores one payment attempt. The partial unique index keeps at
// most one non-failed payment per order.
type PaymentDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_payments_active_order,where:status <> 'failed'"`
	CustomerID   string          `gorm:"size:64;not null;index"`
	CartAmount   decimal.Decimal `gorm:"type:numeric;not null"`
	DeliveryFee  decimal.Decimal `gorm:"type:numeric;not null"`
	Amount       decimal.Decimal `gorm:"type:numeric;not null"`
	Currency     string          `gorm:"size:3;not null"`
	Status       string          `gorm:"size:16;not null;index"`
	IntentRef    string          `gorm:"size:255;not null;uniqueIndex"`
	ClientSecret string          `gorm:"size:255"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:           p.ID().Bytes(),
		OrderID:      p.OrderID().Bytes(),
		CustomerID:   p.CustomerID(),
		CartAmount:   p.CartAmount().Decimal(),
		DeliveryFee:  p.DeliveryFee().Decimal(),
		Amount:       p.Amount().Decimal(),
		Currency:     p.Currency(),
		Status:       p.Status().String(),
		IntentRef:    p.IntentRef(),
		ClientSecret: p.ClientSecret(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	cart, err := kernel.NewMoney(dto.CartAmount)
	if err != nil {
		return nil, err
	}
	fee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}

	return payment.RestorePayment(payment.NewPaymentParams{
		ID:           id,
		OrderID:      orderID,
		CustomerID:   dto.CustomerID,
		CartAmount:   cart,
		DeliveryFee:  fee,
		Currency:     dto.Currency,
		IntentRef:    dto.IntentRef,
		ClientSecret: dto.ClientSecret,
		CreatedAt:    dto.CreatedAt,
	}, amount, status, dto.UpdatedAt)
}
