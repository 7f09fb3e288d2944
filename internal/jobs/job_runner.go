package jobs

import (
	"bikeshare-backend/internal/config"
	"bikeshare-backend/internal/logger"
	"bikeshare-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs. Every job is idempotent and
// safe under at-least-once delivery; the underlying operations are
// guarded by conditional updates.
type JobRunner struct {
	services *Services
	config   *config.Config
}

// Services holds the service dependencies needed by jobs
type Services struct {
	Subscription service.SubscriptionService
	Reservation  service.ReservationService
}

func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ActivatePendingSubscriptions()
	jr.ExpireSubscriptions()
	jr.ExpireReservationHolds()
}
