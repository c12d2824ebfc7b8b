package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type AdvanceSimulationsHandler interface {
	Handle(ctx context.Context, cmd commands.AdvanceSimulationsCommand) error
}

// MovementSimulationJob moves every active simulation one step per tick.
type MovementSimulationJob struct {
	handler  AdvanceSimulationsHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewMovementSimulationJob(handler AdvanceSimulationsHandler, schedule string, logger *slog.Logger) *MovementSimulationJob {
	logger = logger.With("component", "movement_simulation_job")
	return &MovementSimulationJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(logger),
		logger:   logger,
	}
}

func (j *MovementSimulationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		// A tick must not outlive the cadence.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := j.handler.Handle(ctx, commands.NewAdvanceSimulationsCommand()); err != nil {
			j.logger.ErrorContext(ctx, "movement simulation step failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("movement simulation job started", "schedule", j.schedule)
	return nil
}

func (j *MovementSimulationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("movement simulation job stopped")
}
