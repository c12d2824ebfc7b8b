package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places of the smallest currency
// unit (cents) used when amounts leave the service.
const MinorUnitPlaces = 2

var ErrMoneyIsNegative = errs.NewValueIsInvalidError("amount must not be negative")

// Money is a non-negative amount in major currency units, kept at full
// precision. Rounding happens only in MinorUnits and Rounded.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}
	return Money{amount: amount}, nil
}

func NewMoneyFromFloat(amount float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount))
}

func MustNewMoney(amount string) Money {
	m, err := NewMoney(decimal.RequireFromString(amount))
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Mul multiplies by a non-negative quantity.
func (m Money) Mul(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Rounded returns the amount rounded half-up to the minor unit.
func (m Money) Rounded() Money {
	return Money{amount: m.amount.Round(MinorUnitPlaces)}
}

// MinorUnits returns the amount in the smallest currency unit, rounded half-up.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(MinorUnitPlaces).Round(0).IntPart()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(MinorUnitPlaces)
}
