package jobs

import (
	"context"
	"errors"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/metrics"
)

// SweepResult counts what one pass of the expiry sweeper did.
type SweepResult struct {
	Returned int
	Skipped  int
	Failed   int
}

// AutoReturnExpiredRentals closes every rental whose period has elapsed, refunding the
// collateral to the renter.
func (jr *JobRunner) AutoReturnExpiredRentals() {
	jr.runWithRecovery("AutoReturnExpiredRentals", func() {
		res, err := jr.SweepExpired(context.Background())
		if err != nil {
			logger.Error("Failed to list expired rentals", "error", err)
			return
		}
		logger.Info("Expired rentals swept", "returned", res.Returned, "skipped", res.Skipped, "failed", res.Failed)
	})
}

// SweepExpired runs one pass. A rental closed by someone else between listing and
// returning it is skipped, not failed.
func (jr *JobRunner) SweepExpired(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	expired, err := jr.rentals.ListExpiredRentals(ctx)
	if err != nil {
		metrics.RecordSweep("list_failed")
		return res, err
	}

	for _, rt := range expired {
		err := jr.rentals.AutoReturnExpired(ctx, jr.principal, rt.ListingID)
		switch {
		case err == nil:
			res.Returned++
			metrics.RecordSweep("returned")
			logger.Debug("Auto-returned rental", "listing_id", rt.ListingID, "rental_id", rt.RentalID, "renter", rt.Renter)
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrRentalActive):
			res.Skipped++
			metrics.RecordSweep("skipped")
		default:
			res.Failed++
			metrics.RecordSweep("failed")
			logger.Error("Failed to auto-return rental", "listing_id", rt.ListingID, "error", err)
		}
	}
	return res, nil
}
