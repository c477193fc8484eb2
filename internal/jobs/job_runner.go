package jobs

import (
	"context"

	"rentacar-backend/internal/config"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/service"
	"rentacar-backend/internal/utils"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	bookings repository.BookingRepository
	rentals  repository.RentalRepository
	audit    service.AuditService
	clock    utils.Clock
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos repository.Repos, audit service.AuditService, clock utils.Clock, cfg *config.Config) *JobRunner {
	return &JobRunner{
		bookings: repos.Bookings,
		rentals:  repos.Rentals,
		audit:    audit,
		clock:    clock,
		config:   cfg,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(context.Background()); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ReportOverdueRentals()
	jr.ReportStaleBookingRequests()
}

// RunJob runs one job by its command line name. It reports false for an unknown name.
func (jr *JobRunner) RunJob(name string) bool {
	switch name {
	case "report-overdue-rentals":
		jr.ReportOverdueRentals()
	case "report-stale-booking-requests":
		jr.ReportStaleBookingRequests()
	case "all-nightly":
		jr.RunAllNightlyJobs()
	default:
		return false
	}
	return true
}
