// Package memory is an in-process Store. Updates run one at a time against a staged copy
// of the state that replaces the live state only when the unit of work succeeds.
package memory

import (
	"context"
	"maps"
	"sync"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
)

type state struct {
	listings map[uint64]domain.Listing
	assets   map[domain.AssetID]uint64
	rentals  map[uint64]domain.ActiveRental
	history  []domain.HistoryRecord
	stats    map[string]domain.UserStats
	balances map[string]uint64
	entries  []domain.LedgerEntry
	platform domain.PlatformState
}

func newState(params domain.PlatformParams) *state {
	return &state{
		listings: make(map[uint64]domain.Listing),
		assets:   make(map[domain.AssetID]uint64),
		rentals:  make(map[uint64]domain.ActiveRental),
		stats:    make(map[string]domain.UserStats),
		balances: make(map[string]uint64),
		platform: *domain.NewPlatformState(params),
	}
}

func (s *state) clone() *state {
	return &state{
		listings: maps.Clone(s.listings),
		assets:   maps.Clone(s.assets),
		rentals:  maps.Clone(s.rentals),
		// append-only logs: capping capacity makes the staged copy reallocate on append
		history:  s.history[:len(s.history):len(s.history)],
		stats:    maps.Clone(s.stats),
		balances: maps.Clone(s.balances),
		entries:  s.entries[:len(s.entries):len(s.entries)],
		platform: s.platform,
	}
}

type Store struct {
	mu sync.RWMutex
	st *state
}

var _ repository.Store = (*Store)(nil)

func NewStore(params domain.PlatformParams) *Store {
	return &Store{st: newState(params)}
}

// View runs fn against the live state. fn must only read.
func (s *Store) View(ctx context.Context, fn func(r *repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(bind(s.st))
}

func (s *Store) Update(ctx context.Context, fn func(r *repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.st.clone()
	if err := fn(bind(staged)); err != nil {
		return err
	}
	s.st = staged
	return nil
}

func bind(st *state) *repository.Repositories {
	return &repository.Repositories{
		Listings: &listingRepository{st: st},
		Assets:   &assetIndexRepository{st: st},
		Rentals:  &rentalRepository{st: st},
		History:  &historyRepository{st: st},
		Stats:    &userStatsRepository{st: st},
		Ledger:   &ledgerRepository{st: st},
		Platform: &platformRepository{st: st},
	}
}
