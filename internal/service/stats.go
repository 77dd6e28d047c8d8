package service

import (
	"context"
	"errors"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
	"rental-escrow-backend/internal/utils"
)

// StatsTracker maintains per-user counters and the reputation score.
// Reputation only ever grows; no outcome lowers it.
type StatsTracker struct{}

// RecordActivity counts one rental event for user. amount is added to the user's
// earnings when isEarning is set and to their spending otherwise.
func (StatsTracker) RecordActivity(ctx context.Context, r *repository.Repositories, user string, amount uint64, isEarning bool) error {
	stats, err := r.Stats.Get(ctx, user)
	if errors.Is(err, repository.ErrNotFound) {
		stats = domain.NewUserStats(user)
	} else if err != nil {
		return err
	}

	stats.TotalRentals++
	if isEarning {
		if stats.TotalEarned, err = utils.CheckedAdd(stats.TotalEarned, amount); err != nil {
			return err
		}
	} else {
		if stats.TotalSpent, err = utils.CheckedAdd(stats.TotalSpent, amount); err != nil {
			return err
		}
	}
	stats.ReputationScore = min(stats.ReputationScore+domain.ReputationIncrease, domain.MaxReputation)

	return r.Stats.Save(ctx, stats)
}
