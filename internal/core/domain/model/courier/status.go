package courier

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ApprovalStatus is the registration review state of a courier.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch st := ApprovalStatus(s); st {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return st, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("approvalStatus", fmt.Errorf("%q is not a valid status", s))
	}
}

func (s ApprovalStatus) String() string {
	return string(s)
}
