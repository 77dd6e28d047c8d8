package jobs

import (
	"context"

	"rental-escrow-backend/internal/config"
	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
)

// ExpiryService is the slice of the rental state machine the sweeper drives. It is
// satisfied by service.RentalService in-process and by the gRPC client remotely.
type ExpiryService interface {
	ListExpiredRentals(ctx context.Context) ([]domain.ActiveRental, error)
	AutoReturnExpired(ctx context.Context, caller string, listingID uint64) error
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals   ExpiryService
	principal string
	config    *config.Config
}

// NewJobRunner creates a job runner acting as principal when it calls the market.
func NewJobRunner(rentals ExpiryService, principal string, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rentals:   rentals,
		principal: principal,
		config:    cfg,
	}
}

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
	jr.AutoReturnExpiredRentals()
}
