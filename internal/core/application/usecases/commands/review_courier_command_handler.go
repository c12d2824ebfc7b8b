package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

type ReviewCourierCommandHandler struct {
	uowFactory UoWFactory
	identity   ports.IdentityClient
}

func NewReviewCourierCommandHandler(uowFactory UoWFactory, identity ports.IdentityClient) ReviewCourierCommandHandler {
	return ReviewCourierCommandHandler{
		uowFactory: uowFactory,
		identity:   identity,
	}
}

// Handle approves or rejects a pending courier. Approval also grants the
// delivery_personnel role on the backing user account. That call is made
// before the transaction opens, so no database transaction waits on the
// identity service; if it fails the review is not persisted. The grant is
// idempotent, so a review whose commit fails can simply be repeated.
func (h *ReviewCourierCommandHandler) Handle(ctx context.Context, cmd ReviewCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()

	c, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if !cmd.Approve() {
		if err = c.Reject(); err != nil {
			return err
		}
	} else {
		if err = c.Approve(); err != nil {
			return err
		}
		if err = h.identity.UpdateUserRole(ctx, c.UserID(), kernel.RoleDeliveryPersonnel); err != nil {
			return err
		}
	}

	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
