package payment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the capture state of a payment. Only Pending may move to
// Completed or Failed; Completed may move to Refunded.
type Status string

const (
	Pending   Status = "pending"
	Completed Status = "completed"
	Failed    Status = "failed"
	Refunded  Status = "refunded"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case Pending, Completed, Failed, Refunded:
		return st, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a valid status", s))
	}
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether gateway confirmations no longer apply.
func (s Status) IsTerminal() bool {
	return s != Pending
}
