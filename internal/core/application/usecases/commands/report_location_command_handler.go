package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/courier"
)

type ReportLocationCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

func NewReportLocationCommandHandler(uowFactory UoWFactory, logger *slog.Logger) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "courier_location"),
	}
}

// Handle overwrites the courier's current position. Live and simulated
// samples share this path and are indistinguishable once stored.
func (h *ReportLocationCommandHandler) Handle(ctx context.Context, cmd ReportLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var (
		c   *courier.Courier
		err error
	)
	if id := cmd.CourierID(); id != nil {
		c, err = uow.CourierRepository().Get(ctx, *id)
	} else {
		c, err = uow.CourierRepository().GetByUserID(ctx, cmd.UserID())
	}
	if err != nil {
		return err
	}

	if err = c.ReportLocation(cmd.Location(), time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.DebugContext(ctx, "courier location updated",
		"courier_id", c.ID().String(), "source", string(cmd.Source()), "location", cmd.Location().String())
	return nil
}
