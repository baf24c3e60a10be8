package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	strategyProbeJob *StrategyProbeJob
	logger           *slog.Logger
}

// NewJobManager creates a job manager. A nil probe job disables probing.
func NewJobManager(strategyProbeJob *StrategyProbeJob, logger *slog.Logger) *JobManager {
	return &JobManager{
		strategyProbeJob: strategyProbeJob,
		logger:           logger.With("component", "job_manager"),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if jm.strategyProbeJob == nil {
		jm.logger.Info("No jobs scheduled")
		return nil
	}

	if err := jm.strategyProbeJob.Start(); err != nil {
		return fmt.Errorf("failed to start strategy probe job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.strategyProbeJob != nil {
		jm.strategyProbeJob.Stop()
	}
}
