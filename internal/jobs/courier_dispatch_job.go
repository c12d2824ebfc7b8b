package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type AutoAssignHandler interface {
	Handle(ctx context.Context, cmd commands.AutoAssignCouriersCommand) error
}

// CourierDispatchJob assigns at most one waiting delivery per tick.
type CourierDispatchJob struct {
	handler  AutoAssignHandler
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewCourierDispatchJob(handler AutoAssignHandler, schedule string, logger *slog.Logger) *CourierDispatchJob {
	logger = logger.With("component", "courier_dispatch_job")
	return &CourierDispatchJob{
		handler:  handler,
		schedule: schedule,
		timeout:  10 * time.Second,
		cron:     newCron(logger),
		logger:   logger,
	}
}

func (j *CourierDispatchJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		if err := j.handler.Handle(ctx, commands.NewAutoAssignCouriersCommand()); err != nil {
			j.logger.ErrorContext(ctx, "courier dispatch failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("courier dispatch job started", "schedule", j.schedule)
	return nil
}

// Stop halts scheduling and waits for a running tick to finish.
func (j *CourierDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("courier dispatch job stopped")
}
