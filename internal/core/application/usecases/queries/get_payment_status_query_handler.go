package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetPaymentStatusQueryHandler struct {
	db *gorm.DB
}

func NewGetPaymentStatusQueryHandler(db *gorm.DB) GetPaymentStatusQueryHandler {
	return GetPaymentStatusQueryHandler{db: db}
}

func (h GetPaymentStatusQueryHandler) Handle(ctx context.Context, query GetPaymentStatusQuery) (PaymentStatus, error) {
	if err := query.Validate(); err != nil {
		return PaymentStatus{}, err
	}

	var row struct {
		ID          uuid.UUID
		CustomerID  string
		CartAmount  decimal.Decimal
		DeliveryFee decimal.Decimal
		Amount      decimal.Decimal
		Currency    string
		Status      string
		IntentRef   string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			cart_amount,
			delivery_fee,
			amount,
			currency,
			status,
			intent_ref,
			created_at,
			updated_at
		FROM payments
		WHERE order_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, query.orderID.Bytes()).Scan(&row)
	if result.Error != nil {
		return PaymentStatus{}, result.Error
	}

	if result.RowsAffected == 0 ||
		(query.actor.Role == kernel.RoleCustomer && row.CustomerID != query.actor.ID) {
		return PaymentStatus{}, errs.NewObjectNotFoundError("payment", query.orderID.String())
	}

	paymentID, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return PaymentStatus{}, err
	}

	return PaymentStatus{
		ID:          paymentID,
		OrderID:     query.orderID,
		CartAmount:  row.CartAmount,
		DeliveryFee: row.DeliveryFee,
		Amount:      row.Amount,
		Currency:    row.Currency,
		Status:      row.Status,
		IntentRef:   row.IntentRef,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, nil
}
