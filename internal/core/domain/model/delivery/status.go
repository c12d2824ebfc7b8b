package delivery

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Status is the fulfillment state of a delivery.
//
// OnTheWay is a delivery-only refinement of OutForDelivery: the courier is en
// route and has live position available. Both map to the order's
// "Out for Delivery" status (see OrderStatus).
type Status int

const (
	Unknown Status = iota
	Pending
	Assigned
	OutForDelivery
	OnTheWay
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		Assigned:       "Assigned",
		OutForDelivery: "Out for Delivery",
		OnTheWay:       "On the Way",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

func getTransitions() map[Status][]Status {
	//nolint:exhaustive // final states have no outgoing edges
	return map[Status][]Status{
		Pending:        {Assigned, Cancelled},
		Assigned:       {OutForDelivery, OnTheWay, Delivered, Cancelled},
		OutForDelivery: {OnTheWay, Delivered, Cancelled},
		OnTheWay:       {Delivered, Cancelled},
	}
}

func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", " "))
	for status, name := range getStatusStrings() {
		if status != Unknown && strings.ToLower(name) == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid delivery status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

func (s Status) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// RequiresCourier reports whether the status only makes sense with a courier bound.
func (s Status) RequiresCourier() bool {
	return s == Assigned || s == OutForDelivery || s == OnTheWay || s == Delivered
}

func (s Status) ValidateTransition(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	for _, next := range getTransitions()[s] {
		if next == to {
			return nil
		}
	}
	return errs.NewInvalidTransitionError("delivery", s.String(), to.String())
}

// OrderStatus maps a delivery status onto the order vocabulary. The second
// result is false for Pending, Assigned and Cancelled, which have no order
// counterpart.
func (s Status) OrderStatus() (order.Status, bool) {
	switch s {
	case OutForDelivery, OnTheWay:
		return order.OutForDelivery, true
	case Delivered:
		return order.Delivered, true
	default:
		return order.Unknown, false
	}
}
