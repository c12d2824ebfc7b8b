package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/simulation"
	"fulfillment/internal/pkg/errs"
)

// LocationReporter is the single ingestion path for courier positions.
type LocationReporter interface {
	Handle(ctx context.Context, cmd ReportLocationCommand) error
}

type AdvanceSimulationsCommandHandler struct {
	uowFactory UoWFactory
	reporter   LocationReporter
	logger     *slog.Logger
}

func NewAdvanceSimulationsCommandHandler(
	uowFactory UoWFactory,
	reporter LocationReporter,
	logger *slog.Logger,
) AdvanceSimulationsCommandHandler {
	return AdvanceSimulationsCommandHandler{
		uowFactory: uowFactory,
		reporter:   reporter,
		logger:     logger.With("component", "movement_simulation"),
	}
}

// Handle moves every active simulation one step and reports the new point
// through the regular location path. A simulation whose report fails keeps
// its step and is retried on the next tick. A simulation whose delivery has
// ended, or moved to another courier, is stopped instead.
func (h *AdvanceSimulationsCommandHandler) Handle(ctx context.Context, cmd AdvanceSimulationsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	active, err := h.uowFactory.Create().SimulationRepository().GetAllActive(ctx)
	if err != nil {
		return err
	}

	for _, sim := range active {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = h.advance(ctx, sim); err != nil {
			h.logger.WarnContext(ctx, "simulation step failed",
				"simulation_id", sim.ID().String(), "order_id", sim.OrderID().String(), "error", err)
		}
	}

	return nil
}

func (h *AdvanceSimulationsCommandHandler) advance(ctx context.Context, sim *simulation.Simulation) error {
	now := time.Now().UTC()

	current, err := h.isCurrent(ctx, sim)
	if err != nil {
		return err
	}
	if !current {
		sim.Stop(now)
		if err = h.save(ctx, sim); err != nil {
			return err
		}
		h.logger.InfoContext(ctx, "simulation stopped, delivery is no longer carried by its courier",
			"simulation_id", sim.ID().String(), "order_id", sim.OrderID().String())
		return nil
	}

	point, err := sim.Advance(now)
	if err != nil {
		return err
	}

	report, err := NewSimulatedLocationCommand(sim.CourierID(), point)
	if err != nil {
		return err
	}

	if err = h.reporter.Handle(ctx, report); err != nil {
		return err
	}

	if err = h.save(ctx, sim); err != nil {
		return err
	}

	if sim.IsFinished() {
		h.logger.InfoContext(ctx, "simulation reached destination",
			"simulation_id", sim.ID().String(), "order_id", sim.OrderID().String())
	}
	return nil
}

// isCurrent reports whether the delivery of the simulated order is still
// open and bound to the simulated courier.
func (h *AdvanceSimulationsCommandHandler) isCurrent(ctx context.Context, sim *simulation.Simulation) (bool, error) {
	d, err := h.uowFactory.Create().DeliveryRepository().GetByOrder(ctx, sim.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return false, nil
		}
		return false, err
	}

	if d.Status().IsFinal() || d.CourierID() == nil {
		return false, nil
	}
	return d.CourierID().IsEqual(sim.CourierID()), nil
}

func (h *AdvanceSimulationsCommandHandler) save(ctx context.Context, sim *simulation.Simulation) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.SimulationRepository().Update(ctx, sim); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
