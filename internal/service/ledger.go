package service

import (
	"context"
	"errors"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
)

const defaultEntryLimit = 50

type ledgerService struct {
	store repository.Store
}

func NewLedgerService(store repository.Store) LedgerService {
	return &ledgerService{store: store}
}

func (s *ledgerService) GetBalance(ctx context.Context, account string) (uint64, error) {
	var balance uint64
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		var err error
		balance, err = r.Ledger.GetBalance(ctx, account)
		return err
	})
	return balance, err
}

// GetEntries returns the newest movements touching account. A non-positive limit
// falls back to the default page size.
func (s *ledgerService) GetEntries(ctx context.Context, account string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultEntryLimit
	}
	var entries []domain.LedgerEntry
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		var err error
		entries, err = r.Ledger.ListEntries(ctx, account, limit)
		return err
	})
	return entries, err
}

func (s *ledgerService) GetUserStats(ctx context.Context, user string) (*domain.UserStats, error) {
	var stats *domain.UserStats
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		var err error
		stats, err = r.Stats.Get(ctx, user)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Errorf(domain.CodeNotFound, "no activity recorded for %s", user)
		}
		return err
	})
	return stats, err
}
