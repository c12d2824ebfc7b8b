package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Item is one ordered line: a reference to a restaurant menu item and a
// quantity. Prices are not stored per line; the order total is fixed at
// placement time.
type Item struct {
	menuItemID string
	quantity   int
}

func NewItem(menuItemID string, quantity int) (Item, error) {
	if menuItemID == "" {
		return Item{}, errs.NewValueIsRequiredError("menuItemId")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	return Item{menuItemID: menuItemID, quantity: quantity}, nil
}

func (i Item) MenuItemID() string {
	return i.menuItemID
}

func (i Item) Quantity() int {
	return i.quantity
}

// Address is the delivery destination. Coordinates are optional; without
// them an order cannot be used for movement simulation.
type Address struct {
	line     string
	location *kernel.Location
}

func NewAddress(line string, location *kernel.Location) (Address, error) {
	if line == "" {
		return Address{}, errs.NewValueIsRequiredError("deliveryAddress")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return Address{}, err
		}
		loc := *location
		location = &loc
	}
	return Address{line: line, location: location}, nil
}

func (a Address) Line() string {
	return a.line
}

// Location returns the destination coordinates and whether they are known.
func (a Address) Location() (kernel.Location, bool) {
	if a.location == nil {
		return kernel.Location{}, false
	}
	return *a.location, true
}

// PaymentMethod is the tag chosen by the customer at checkout.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodCash, PaymentMethodCard:
		return m, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not supported", s))
	}
}

func (m PaymentMethod) String() string {
	return string(m)
}
