package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")

	// ErrCardDetailsRequired is returned when a card payment is chosen without
	// a card-detail reference.
	ErrCardDetailsRequired = errs.NewValueIsRequiredError("cardDetails")
)

// Order is the aggregate root of the fulfillment lifecycle. It is the single
// authority over its own status: every change goes through TransitionTo or
// Cancel, which consult the authorization table and the edge table and record
// a StatusChange for the audit trail.
//
// Order follows these invariants:
//   - total price is fixed at placement and never recomputed
//   - at least one line item is present
//   - a card payment always carries a card-detail reference
//   - status moves only along the edges of the state machine
type Order struct {
	id            kernel.UUID
	customerID    string
	restaurantID  string
	items         []Item
	totalPrice    kernel.Money
	status        Status
	address       Address
	paymentMethod PaymentMethod
	cardReference string
	createdAt     time.Time
	updatedAt     time.Time

	// loadedStatus is the status the order was built with; the repository
	// only writes over a row that still holds it.
	loadedStatus Status

	// changes holds transitions not yet published, in the order they happened.
	changes []StatusChange

	guard guard.ConstructorGuard
}

// PlaceOrderParams groups the inputs of NewOrder.
type PlaceOrderParams struct {
	ID              kernel.UUID
	CustomerID      string
	RestaurantID    string
	Items           []Item
	TotalPrice      kernel.Money
	DeliveryAddress Address
	PaymentMethod   PaymentMethod
	CardReference   string
	PlacedAt        time.Time
}

// NewOrder places an order in Pending status and records the placement as
// the first StatusChange (from Unknown). All validation errors are joined.
func NewOrder(p PlaceOrderParams) (*Order, error) {
	o := &Order{
		status:       Pending,
		loadedStatus: Pending,
		createdAt:    p.PlacedAt,
		updatedAt:    p.PlacedAt,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setParties(p.CustomerID, p.RestaurantID),
		o.setItems(p.Items),
		o.setAddress(p.DeliveryAddress),
		o.setPayment(p.PaymentMethod, p.CardReference),
	); err != nil {
		return nil, err
	}
	o.totalPrice = p.TotalPrice

	o.record(Unknown, Pending, kernel.RoleCustomer, p.PlacedAt)
	return o, nil
}

// RestoreOrder rebuilds an order from persistence without recording changes.
func RestoreOrder(p PlaceOrderParams, status Status, updatedAt time.Time) (*Order, error) {
	o := &Order{
		createdAt: p.PlacedAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setParties(p.CustomerID, p.RestaurantID),
		o.setItems(p.Items),
		o.setAddress(p.DeliveryAddress),
		o.setPayment(p.PaymentMethod, p.CardReference),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	o.totalPrice = p.TotalPrice
	o.status = status
	o.loadedStatus = status

	return o, nil
}

// Validate ensures the Order was built through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() string {
	return o.customerID
}

func (o *Order) RestaurantID() string {
	return o.restaurantID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

func (o *Order) Status() Status {
	return o.status
}

// LoadedStatus is the status the order had when it was placed or restored.
func (o *Order) LoadedStatus() Status {
	return o.loadedStatus
}

func (o *Order) DeliveryAddress() Address {
	return o.address
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) CardReference() string {
	return o.cardReference
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsOwnedBy reports whether customerID placed the order.
func (o *Order) IsOwnedBy(customerID string) bool {
	return customerID != "" && o.customerID == customerID
}

// TransitionTo moves the order to a new status on behalf of role.
//
// The role is checked first against the authorization table (ForbiddenError),
// then the edge against the state machine (InvalidTransitionError). On error
// the order is left untouched.
func (o *Order) TransitionTo(to Status, role kernel.Role, now time.Time) error {
	if err := AuthorizeTransition(role, to); err != nil {
		return err
	}
	if err := o.status.ValidateTransition(to); err != nil {
		return err
	}

	o.record(o.status, to, role, now)
	o.status = to
	o.updatedAt = now
	return nil
}

// Cancel withdraws a Pending order on behalf of its customer.
//
// A customer who does not own the order gets ObjectNotFoundError, the same
// error as for a missing order. Any status other than Pending yields
// InvalidTransitionError, so a second cancel fails.
func (o *Order) Cancel(customerID string, now time.Time) error {
	if !o.IsOwnedBy(customerID) {
		return errs.NewObjectNotFoundError("order", o.id.String())
	}
	if o.status != Pending {
		return errs.NewInvalidTransitionError("order", o.status.String(), Cancelled.String())
	}

	o.record(o.status, Cancelled, kernel.RoleCustomer, now)
	o.status = Cancelled
	o.updatedAt = now
	return nil
}

// StatusChanges returns the transitions recorded since the order was loaded
// or since the last ClearStatusChanges.
func (o *Order) StatusChanges() []StatusChange {
	out := make([]StatusChange, len(o.changes))
	copy(out, o.changes)
	return out
}

func (o *Order) ClearStatusChanges() {
	o.changes = nil
}

func (o *Order) record(from, to Status, role kernel.Role, at time.Time) {
	o.changes = append(o.changes, StatusChange{
		ID:         kernel.NewUUID(),
		OrderID:    o.id,
		CustomerID: o.customerID,
		From:       from,
		To:         to,
		ActorRole:  role,
		ChangedAt:  at,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(customerID, restaurantID string) error {
	var err error
	if customerID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("customerId"))
	}
	if restaurantID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("restaurantId"))
	}
	o.customerID = customerID
	o.restaurantID = restaurantID
	return err
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if item.menuItemID == "" || item.quantity <= 0 {
			return errs.NewValueIsInvalidError("items")
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setAddress(address Address) error {
	if address.line == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	o.address = address
	return nil
}

func (o *Order) setPayment(method PaymentMethod, cardReference string) error {
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return err
	}
	if method == PaymentMethodCard && cardReference == "" {
		return ErrCardDetailsRequired
	}
	o.paymentMethod = method
	o.cardReference = cardReference
	return nil
}
