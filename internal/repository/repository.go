package repository

import (
	"context"
	"errors"

	"rental-escrow-backend/internal/domain"
)

// ErrNotFound is returned by repositories when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id uint64) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id uint64) error
}

// AssetIndexRepository maps an external asset to the listing that offers it.
type AssetIndexRepository interface {
	Put(ctx context.Context, asset domain.AssetID, listingID uint64) error
	Get(ctx context.Context, asset domain.AssetID) (uint64, error)
	Delete(ctx context.Context, asset domain.AssetID) error
}

// RentalRepository holds the live rental records, keyed by listing id.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.ActiveRental) error
	GetByListing(ctx context.Context, listingID uint64) (*domain.ActiveRental, error)
	Delete(ctx context.Context, listingID uint64) error
	ListExpired(ctx context.Context, height uint64) ([]domain.ActiveRental, error)
}

// HistoryRepository is append-only.
type HistoryRepository interface {
	Append(ctx context.Context, record *domain.HistoryRecord) error
	ListByUser(ctx context.Context, user string) ([]domain.HistoryRecord, error)
}

type UserStatsRepository interface {
	Get(ctx context.Context, user string) (*domain.UserStats, error)
	Save(ctx context.Context, stats *domain.UserStats) error
}

// LedgerRepository stores account balances and the log of value movements.
type LedgerRepository interface {
	GetBalance(ctx context.Context, account string) (uint64, error)
	SetBalance(ctx context.Context, account string, balance uint64) error
	AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error
	ListEntries(ctx context.Context, account string, limit int) ([]domain.LedgerEntry, error)
}

// PlatformRepository holds the single platform state row.
type PlatformRepository interface {
	Get(ctx context.Context) (*domain.PlatformState, error)
	Save(ctx context.Context, state *domain.PlatformState) error
}

// Repositories is the set of repositories bound to one unit of work.
type Repositories struct {
	Listings ListingRepository
	Assets   AssetIndexRepository
	Rentals  RentalRepository
	History  HistoryRepository
	Stats    UserStatsRepository
	Ledger   LedgerRepository
	Platform PlatformRepository
}

// Store runs units of work against persisted state. Update applies every change made by
// fn atomically, or none of them if fn returns an error. Updates are serialized with
// respect to each other.
type Store interface {
	View(ctx context.Context, fn func(r *Repositories) error) error
	Update(ctx context.Context, fn func(r *Repositories) error) error
}
