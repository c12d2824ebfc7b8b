package jobs

import (
	"fmt"
	"log/slog"
)

const (
	DefaultDispatchSchedule = "*/5 * * * * *"
	DefaultMovementSchedule = "* * * * * *"
)

type Schedules struct {
	Dispatch string
	Movement string
}

// JobManager starts and stops the background jobs together.
type JobManager struct {
	dispatchJob *CourierDispatchJob
	movementJob *MovementSimulationJob
}

func NewJobManager(
	autoAssign AutoAssignHandler,
	advance AdvanceSimulationsHandler,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	if schedules.Dispatch == "" {
		schedules.Dispatch = DefaultDispatchSchedule
	}
	if schedules.Movement == "" {
		schedules.Movement = DefaultMovementSchedule
	}

	return &JobManager{
		dispatchJob: NewCourierDispatchJob(autoAssign, schedules.Dispatch, logger),
		movementJob: NewMovementSimulationJob(advance, schedules.Movement, logger),
	}
}

// StartAll starts every job. If one fails, the ones already running are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start courier dispatch job: %w", err)
	}

	if err := jm.movementJob.Start(); err != nil {
		jm.dispatchJob.Stop()
		return fmt.Errorf("failed to start movement simulation job: %w", err)
	}

	return nil
}

func (jm *JobManager) StopAll() {
	jm.movementJob.Stop()
	jm.dispatchJob.Stop()
}
