package memory

import (
	"context"
	"fmt"
	"sort"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
)

type listingRepository struct{ st *state }

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	if _, ok := r.st.listings[l.ID]; ok {
		return fmt.Errorf("listing %d already exists", l.ID)
	}
	r.st.listings[l.ID] = *l
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id uint64) (*domain.Listing, error) {
	l, ok := r.st.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	if _, ok := r.st.listings[l.ID]; !ok {
		return repository.ErrNotFound
	}
	r.st.listings[l.ID] = *l
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.st.listings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.st.listings, id)
	return nil
}

type assetIndexRepository struct{ st *state }

func (r *assetIndexRepository) Put(ctx context.Context, asset domain.AssetID, listingID uint64) error {
	if _, ok := r.st.assets[asset]; ok {
		return fmt.Errorf("asset %s/%d already indexed", asset.Contract, asset.TokenID)
	}
	r.st.assets[asset] = listingID
	return nil
}

func (r *assetIndexRepository) Get(ctx context.Context, asset domain.AssetID) (uint64, error) {
	id, ok := r.st.assets[asset]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (r *assetIndexRepository) Delete(ctx context.Context, asset domain.AssetID) error {
	if _, ok := r.st.assets[asset]; !ok {
		return repository.ErrNotFound
	}
	delete(r.st.assets, asset)
	return nil
}

type rentalRepository struct{ st *state }

func (r *rentalRepository) Create(ctx context.Context, rt *domain.ActiveRental) error {
	if _, ok := r.st.rentals[rt.ListingID]; ok {
		return fmt.Errorf("listing %d already has an active rental", rt.ListingID)
	}
	r.st.rentals[rt.ListingID] = *rt
	return nil
}

func (r *rentalRepository) GetByListing(ctx context.Context, listingID uint64) (*domain.ActiveRental, error) {
	rt, ok := r.st.rentals[listingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rt, nil
}

func (r *rentalRepository) Delete(ctx context.Context, listingID uint64) error {
	if _, ok := r.st.rentals[listingID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.st.rentals, listingID)
	return nil
}

func (r *rentalRepository) ListExpired(ctx context.Context, height uint64) ([]domain.ActiveRental, error) {
	var expired []domain.ActiveRental
	for _, rt := range r.st.rentals {
		if rt.Expired(height) {
			expired = append(expired, rt)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].EndBlock < expired[j].EndBlock })
	return expired, nil
}

type historyRepository struct{ st *state }

func (r *historyRepository) Append(ctx context.Context, rec *domain.HistoryRecord) error {
	r.st.history = append(r.st.history, *rec)
	return nil
}

func (r *historyRepository) ListByUser(ctx context.Context, user string) ([]domain.HistoryRecord, error) {
	var out []domain.HistoryRecord
	for _, rec := range r.st.history {
		if rec.User == user {
			out = append(out, rec)
		}
	}
	return out, nil
}

type userStatsRepository struct{ st *state }

func (r *userStatsRepository) Get(ctx context.Context, user string) (*domain.UserStats, error) {
	s, ok := r.st.stats[user]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *userStatsRepository) Save(ctx context.Context, s *domain.UserStats) error {
	r.st.stats[s.User] = *s
	return nil
}

type ledgerRepository struct{ st *state }

func (r *ledgerRepository) GetBalance(ctx context.Context, account string) (uint64, error) {
	return r.st.balances[account], nil
}

func (r *ledgerRepository) SetBalance(ctx context.Context, account string, balance uint64) error {
	if balance == 0 {
		delete(r.st.balances, account)
		return nil
	}
	r.st.balances[account] = balance
	return nil
}

func (r *ledgerRepository) AppendEntry(ctx context.Context, e *domain.LedgerEntry) error {
	e.ID = uint64(len(r.st.entries)) + 1
	r.st.entries = append(r.st.entries, *e)
	return nil
}

// ListEntries returns the newest entries touching account first.
func (r *ledgerRepository) ListEntries(ctx context.Context, account string, limit int) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for i := len(r.st.entries) - 1; i >= 0; i-- {
		e := r.st.entries[i]
		if e.From != account && e.To != account {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type platformRepository struct{ st *state }

func (r *platformRepository) Get(ctx context.Context) (*domain.PlatformState, error) {
	p := r.st.platform
	return &p, nil
}

func (r *platformRepository) Save(ctx context.Context, p *domain.PlatformState) error {
	r.st.platform = *p
	return nil
}
