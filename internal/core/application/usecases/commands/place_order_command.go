package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderItem is one requested line.
type PlaceOrderItem struct {
	MenuItemID string
	Quantity   int
}

type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customer      kernel.Actor
	restaurantID  string
	items         []order.Item
	totalPrice    kernel.Money
	paymentMethod order.PaymentMethod
	cardReference string
	address       order.Address

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates the request shape. Restaurant existence is
// checked by the handler.
func NewPlaceOrderCommand(
	customer kernel.Actor,
	restaurantID string,
	items []PlaceOrderItem,
	totalPrice kernel.Money,
	paymentMethod string,
	cardReference string,
	address order.Address,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		orderID:       kernel.NewUUID(),
		customer:      customer,
		cardReference: cardReference,
		address:       address,
		totalPrice:    totalPrice,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomer(customer),
		cmd.setRestaurantID(restaurantID),
		cmd.setItems(items),
		cmd.setPaymentMethod(paymentMethod, cardReference),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) Customer() kernel.Actor {
	return c.customer
}

func (c PlaceOrderCommand) RestaurantID() string {
	return c.restaurantID
}

func (c PlaceOrderCommand) Items() []order.Item {
	return c.items
}

func (c PlaceOrderCommand) TotalPrice() kernel.Money {
	return c.totalPrice
}

func (c PlaceOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c PlaceOrderCommand) CardReference() string {
	return c.cardReference
}

func (c PlaceOrderCommand) DeliveryAddress() order.Address {
	return c.address
}

func (c *PlaceOrderCommand) setCustomer(customer kernel.Actor) error {
	if customer.Role != kernel.RoleCustomer {
		return errs.NewForbiddenError(customer.Role.String(), "place orders")
	}
	return nil
}

func (c *PlaceOrderCommand) setRestaurantID(restaurantID string) error {
	if restaurantID == "" {
		return errs.NewValueIsRequiredError("restaurantId")
	}
	c.restaurantID = restaurantID
	return nil
}

func (c *PlaceOrderCommand) setItems(items []PlaceOrderItem) error {
	if len(items) == 0 {
		return order.ErrItemsAreRequired
	}
	c.items = make([]order.Item, 0, len(items))
	for _, it := range items {
		item, err := order.NewItem(it.MenuItemID, it.Quantity)
		if err != nil {
			return err
		}
		c.items = append(c.items, item)
	}
	return nil
}

func (c *PlaceOrderCommand) setPaymentMethod(method, cardReference string) error {
	m, err := order.ParsePaymentMethod(method)
	if err != nil {
		return err
	}
	if m == order.PaymentMethodCard && cardReference == "" {
		return order.ErrCardDetailsRequired
	}
	c.paymentMethod = m
	return nil
}
