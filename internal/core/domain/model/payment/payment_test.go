package payment_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func params() payment.NewPaymentParams {
	return payment.NewPaymentParams{
		ID:          kernel.NewUUID(),
		OrderID:     kernel.NewUUID(),
		CustomerID:  "C1",
		CartAmount:  kernel.MustNewMoney("1000"),
		DeliveryFee: kernel.MustNewMoney("150"),
		Currency:    "USD",
		IntentRef:   "pi_123",
		CreatedAt:   now,
	}
}

func TestNewPayment(t *testing.T) {
	p, err := payment.NewPayment(params())

	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, payment.Pending, p.Status())
	assert.Equal(t, "1150.00", p.Amount().String())
	assert.Equal(t, "usd", p.Currency())
	assert.True(t, p.IsActive())
}

func TestNewPayment_RoundsToMinorUnits(t *testing.T) {
	pp := params()
	pp.CartAmount = kernel.MustNewMoney("10.004")
	pp.DeliveryFee = kernel.MustNewMoney("0.001")

	p, err := payment.NewPayment(pp)

	require.NoError(t, err)
	assert.Equal(t, "10.01", p.Amount().String())
	assert.Equal(t, int64(1001), p.Amount().MinorUnits())
}

func TestNewPayment_Validation(t *testing.T) {
	pp := params()
	pp.IntentRef = ""
	pp.Currency = "dollars"
	pp.CustomerID = ""

	_, err := payment.NewPayment(pp)

	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrIntentReferenceRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestPayment_SettlementIsIdempotent(t *testing.T) {
	p, err := payment.NewPayment(params())
	require.NoError(t, err)
	later := now.Add(time.Minute)

	assert.True(t, p.Complete(later))
	assert.Equal(t, payment.Completed, p.Status())
	assert.Equal(t, later, p.UpdatedAt())

	assert.False(t, p.Complete(later.Add(time.Minute)))
	assert.False(t, p.Fail(later.Add(time.Minute)))
	assert.Equal(t, payment.Completed, p.Status())
	assert.Equal(t, later, p.UpdatedAt())
}

func TestPayment_FailKeepsPaymentInactive(t *testing.T) {
	p, err := payment.NewPayment(params())
	require.NoError(t, err)

	assert.True(t, p.Fail(now))
	assert.False(t, p.IsActive())
	assert.False(t, p.Complete(now))
}

func TestPayment_Refund(t *testing.T) {
	p, err := payment.NewPayment(params())
	require.NoError(t, err)

	require.ErrorIs(t, p.Refund(now), errs.ErrInvalidTransition)

	p.Complete(now)
	require.NoError(t, p.Refund(now))
	assert.Equal(t, payment.Refunded, p.Status())

	require.ErrorIs(t, p.Refund(now), errs.ErrInvalidTransition)
}

func TestRestorePayment(t *testing.T) {
	p, err := payment.RestorePayment(params(), kernel.MustNewMoney("1150"), payment.Completed, now)
	require.NoError(t, err)
	assert.Equal(t, payment.Completed, p.Status())

	require.NoError(t, p.Refund(now))
	assert.Equal(t, payment.Completed, p.LoadedStatus())

	_, err = payment.RestorePayment(params(), kernel.MustNewMoney("1150"), payment.Status("done"), now)
	require.Error(t, err)
}
