package memory

import (
	"context"
	"errors"
	"testing"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UpdateCommitsOnSuccess(t *testing.T) {
	store := NewStore(domain.DefaultPlatformParams())
	ctx := context.Background()

	err := store.Update(ctx, func(r *repository.Repositories) error {
		if err := r.Listings.Create(ctx, &domain.Listing{ID: 1, Owner: "alice", Available: true}); err != nil {
			return err
		}
		return r.Assets.Put(ctx, domain.AssetID{Contract: "c", TokenID: 1}, 1)
	})
	require.NoError(t, err)

	err = store.View(ctx, func(r *repository.Repositories) error {
		l, err := r.Listings.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "alice", l.Owner)
		id, err := r.Assets.Get(ctx, domain.AssetID{Contract: "c", TokenID: 1})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_UpdateDiscardsOnError(t *testing.T) {
	store := NewStore(domain.DefaultPlatformParams())
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Update(ctx, func(r *repository.Repositories) error {
		_ = r.Ledger.SetBalance(ctx, "bob", 500)
		_ = r.History.Append(ctx, &domain.HistoryRecord{User: "bob", RentalID: 1})
		p, _ := r.Platform.Get(ctx)
		p.AllocateListingID()
		_ = r.Platform.Save(ctx, p)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_ = store.View(ctx, func(r *repository.Repositories) error {
		bal, _ := r.Ledger.GetBalance(ctx, "bob")
		assert.Equal(t, uint64(0), bal)
		hist, _ := r.History.ListByUser(ctx, "bob")
		assert.Empty(t, hist)
		p, _ := r.Platform.Get(ctx)
		assert.Equal(t, uint64(1), p.NextListingID)
		return nil
	})
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	store := NewStore(domain.DefaultPlatformParams())
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(r *repository.Repositories) error {
		return r.Listings.Create(ctx, &domain.Listing{ID: 3, PricePerBlock: 10})
	}))

	_ = store.View(ctx, func(r *repository.Repositories) error {
		l, _ := r.Listings.GetByID(ctx, 3)
		l.PricePerBlock = 99
		again, _ := r.Listings.GetByID(ctx, 3)
		assert.Equal(t, uint64(10), again.PricePerBlock)
		return nil
	})
}

func TestRentalRepository_ListExpired(t *testing.T) {
	store := NewStore(domain.DefaultPlatformParams())
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(r *repository.Repositories) error {
		for _, rt := range []domain.ActiveRental{
			{ListingID: 1, EndBlock: 300},
			{ListingID: 2, EndBlock: 100},
			{ListingID: 3, EndBlock: 900},
		} {
			if err := r.Rentals.Create(ctx, &rt); err != nil {
				return err
			}
		}
		return nil
	}))

	_ = store.View(ctx, func(r *repository.Repositories) error {
		expired, err := r.Rentals.ListExpired(ctx, 300)
		require.NoError(t, err)
		require.Len(t, expired, 2)
		assert.Equal(t, uint64(2), expired[0].ListingID)
		assert.Equal(t, uint64(1), expired[1].ListingID)
		return nil
	})

	err := store.Update(ctx, func(r *repository.Repositories) error {
		return r.Rentals.Create(ctx, &domain.ActiveRental{ListingID: 1})
	})
	assert.Error(t, err)
}

func TestLedgerRepository_ListEntries(t *testing.T) {
	store := NewStore(domain.DefaultPlatformParams())
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(r *repository.Repositories) error {
		_ = r.Ledger.AppendEntry(ctx, &domain.LedgerEntry{From: "a", To: "custody", Amount: 10})
		_ = r.Ledger.AppendEntry(ctx, &domain.LedgerEntry{From: "custody", To: "b", Amount: 5})
		return r.Ledger.AppendEntry(ctx, &domain.LedgerEntry{From: "custody", To: "a", Amount: 2})
	}))

	_ = store.View(ctx, func(r *repository.Repositories) error {
		entries, _ := r.Ledger.ListEntries(ctx, "a", 0)
		require.Len(t, entries, 2)
		assert.Equal(t, uint64(3), entries[0].ID)
		assert.Equal(t, uint64(1), entries[1].ID)

		limited, _ := r.Ledger.ListEntries(ctx, "custody", 1)
		require.Len(t, limited, 1)
		return nil
	})
}
