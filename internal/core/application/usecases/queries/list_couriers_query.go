package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrListCouriersQueryIsNotConstructed = errors.New(
	"ListCouriersQuery must be created via NewListCouriersQuery constructor",
)

// ListCouriersQuery lists courier profiles for review. An empty approval
// filter returns every profile.
type ListCouriersQuery struct {
	approval courier.ApprovalStatus
	guard    guard.ConstructorGuard
}

func NewListCouriersQuery(approval string, actor kernel.Actor) (ListCouriersQuery, error) {
	if actor.Role != kernel.RoleAdmin {
		return ListCouriersQuery{}, errs.NewForbiddenError(actor.Role.String(), "list couriers")
	}

	var status courier.ApprovalStatus
	if approval != "" {
		parsed, err := courier.ParseApprovalStatus(approval)
		if err != nil {
			return ListCouriersQuery{}, err
		}
		status = parsed
	}

	return ListCouriersQuery{approval: status, guard: guard.NewConstructorGuard()}, nil
}

func (q ListCouriersQuery) Validate() error {
	return q.guard.Validate(ErrListCouriersQueryIsNotConstructed)
}

type CourierView struct {
	ID             kernel.UUID
	UserID         string
	Vehicle        string
	ApprovalStatus string
	Available      bool
	Location       *kernel.Location
	LocatedAt      *time.Time
	Rating         float64
	DeliveryCount  int
}
