package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Out for Delivery ──> Delivered
//	   │
//	   └──> Cancelled
//
// Delivered and Cancelled are final. No other edge is reachable.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a placed order awaiting payment confirmation.
	Pending

	// Confirmed means payment was captured or the order was accepted by staff.
	Confirmed

	// Preparing means the kitchen is working on the order.
	Preparing

	// OutForDelivery means a courier has picked the order up.
	OutForDelivery

	// Delivered is the final successful state.
	Delivered

	// Cancelled is the final state of an order withdrawn while Pending.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		Confirmed:      "Confirmed",
		Preparing:      "Preparing",
		OutForDelivery: "Out for Delivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// getTransitions returns the edge table of the order state machine.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // final states have no outgoing edges
	return map[Status][]Status{
		Pending:        {Confirmed, Cancelled},
		Confirmed:      {Preparing},
		Preparing:      {OutForDelivery},
		OutForDelivery: {Delivered},
	}
}

// ParseStatus maps a display name ("Out for Delivery") or a snake_case alias
// ("out_for_delivery") back to a Status. Matching is case-insensitive.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", " "))
	for status, name := range getStatusStrings() {
		if status != Unknown && strings.ToLower(name) == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks that the status is one of the defined lifecycle states.
// Values read from the database or the API must pass it before use.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the display name of the status, "Unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsFinal reports whether no further transition is possible.
func (s Status) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// AcceptsCourier reports whether a courier may be bound to the order's
// delivery: the order is paid and not yet delivered.
func (s Status) AcceptsCourier() bool {
	return s == Confirmed || s == Preparing || s == OutForDelivery
}

// CanTransitionTo reports whether s -> to is an edge of the state machine.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range getTransitions()[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError when s -> to is not an
// edge of the state machine.
func (s Status) ValidateTransition(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !s.CanTransitionTo(to) {
		return errs.NewInvalidTransitionError("order", s.String(), to.String())
	}
	return nil
}

// PathTo returns the statuses visited when walking the state machine from s
// to target, excluding s and including target. It is nil when target is not
// reachable or equals s.
func (s Status) PathTo(target Status) []Status {
	for _, next := range getTransitions()[s] {
		if next == target {
			return []Status{target}
		}
		if rest := next.PathTo(target); rest != nil {
			return append([]Status{next}, rest...)
		}
	}
	return nil
}
