package payment

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")
	ErrIntentReferenceRequired = errs.NewValueIsRequiredError("intentReference")
	// ErrAlreadyRecorded reports that the order already holds a non-failed
	// payment, or that the intent was already recorded.
	ErrAlreadyRecorded = errors.New("payment already recorded")
)

// Payment is the capture record bound to exactly one order. Amount is the
// already-rounded figure submitted to the gateway: cart amount plus delivery
// fee, rounded half-up to minor units.
type Payment struct {
	id          kernel.UUID
	orderID     kernel.UUID
	customerID  string
	cartAmount  kernel.Money
	deliveryFee kernel.Money
	amount      kernel.Money
	currency    string
	status      Status
	loaded      Status
	intentRef   string
	secret      string
	createdAt   time.Time
	updatedAt   time.Time
	guard       guard.ConstructorGuard
}

// NewPaymentParams groups the inputs of NewPayment. ClientSecret is the
// gateway token the client confirms the intent with.
type NewPaymentParams struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	CustomerID   string
	CartAmount   kernel.Money
	DeliveryFee  kernel.Money
	Currency     string
	IntentRef    string
	ClientSecret string
	CreatedAt    time.Time
}

// Total returns the full-precision sum charged for a cart.
func Total(cartAmount, deliveryFee kernel.Money) kernel.Money {
	return cartAmount.Add(deliveryFee)
}

// NewPayment creates a pending payment for an intent already accepted by the
// gateway.
func NewPayment(p NewPaymentParams) (*Payment, error) {
	pay := &Payment{
		cartAmount:  p.CartAmount,
		deliveryFee: p.DeliveryFee,
		amount:      Total(p.CartAmount, p.DeliveryFee).Rounded(),
		status:      Pending,
		loaded:      Pending,
		secret:      p.ClientSecret,
		createdAt:   p.CreatedAt,
		updatedAt:   p.CreatedAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		pay.setIDs(p.ID, p.OrderID),
		pay.setCustomer(p.CustomerID),
		pay.setCurrency(p.Currency),
		pay.setIntentRef(p.IntentRef),
	); err != nil {
		return nil, err
	}

	return pay, nil
}

// RestorePayment rebuilds a payment from persistence. The stored amount is
// taken as is.
func RestorePayment(p NewPaymentParams, amount kernel.Money, status Status, updatedAt time.Time) (*Payment, error) {
	pay := &Payment{
		cartAmount:  p.CartAmount,
		deliveryFee: p.DeliveryFee,
		amount:      amount,
		secret:      p.ClientSecret,
		createdAt:   p.CreatedAt,
		updatedAt:   updatedAt,
		guard:       guard.NewConstructorGuard(),
	}

	_, statusErr := ParseStatus(string(status))
	if err := errors.Join(
		pay.setIDs(p.ID, p.OrderID),
		pay.setCustomer(p.CustomerID),
		pay.setCurrency(p.Currency),
		pay.setIntentRef(p.IntentRef),
		statusErr,
	); err != nil {
		return nil, err
	}
	pay.status = status
	pay.loaded = status

	return pay, nil
}

func (p *Payment) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p *Payment) ID() kernel.UUID {
	return p.id
}

func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

func (p *Payment) CustomerID() string {
	return p.customerID
}

func (p *Payment) CartAmount() kernel.Money {
	return p.cartAmount
}

func (p *Payment) DeliveryFee() kernel.Money {
	return p.deliveryFee
}

func (p *Payment) Amount() kernel.Money {
	return p.amount
}

func (p *Payment) Currency() string {
	return p.currency
}

func (p *Payment) Status() Status {
	return p.status
}

// LoadedStatus is the status the payment had when it was created or restored.
func (p *Payment) LoadedStatus() Status {
	return p.loaded
}

func (p *Payment) IntentRef() string {
	return p.intentRef
}

func (p *Payment) ClientSecret() string {
	return p.secret
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payment) UpdatedAt() time.Time {
	return p.updatedAt
}

// IsActive reports whether the payment counts toward the one-per-order limit.
func (p *Payment) IsActive() bool {
	return p.status != Failed
}

// Complete marks a pending payment as captured. It returns false without
// error when the payment is already terminal, so replayed gateway events are
// harmless.
func (p *Payment) Complete(now time.Time) bool {
	return p.settle(Completed, now)
}

// Fail marks a pending payment as failed, with the same replay semantics as
// Complete.
func (p *Payment) Fail(now time.Time) bool {
	return p.settle(Failed, now)
}

// Refund moves a completed payment to Refunded.
func (p *Payment) Refund(now time.Time) error {
	if p.status != Completed {
		return errs.NewInvalidTransitionError("payment", p.status.String(), Refunded.String())
	}
	p.status = Refunded
	p.updatedAt = now
	return nil
}

func (p *Payment) settle(to Status, now time.Time) bool {
	if p.status.IsTerminal() {
		return false
	}
	p.status = to
	p.updatedAt = now
	return true
}

func (p *Payment) setIDs(id, orderID kernel.UUID) error {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return err
	}
	p.id = id
	p.orderID = orderID
	return nil
}

func (p *Payment) setCustomer(customerID string) error {
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerId")
	}
	p.customerID = customerID
	return nil
}

func (p *Payment) setCurrency(currency string) error {
	if len(currency) != 3 {
		return errs.NewValueIsInvalidError("currency")
	}
	p.currency = strings.ToLower(currency)
	return nil
}

func (p *Payment) setIntentRef(ref string) error {
	if ref == "" {
		return ErrIntentReferenceRequired
	}
	p.intentRef = ref
	return nil
}
