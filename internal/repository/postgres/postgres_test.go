package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var listingColumns = []string{"listing_id", "asset_contract", "token_id", "owner", "price_per_block", "min_duration", "max_duration", "available", "total_earned", "rental_count", "created_at"}

func TestListingRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rental_listings WHERE listing_id = \\$1").
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows(listingColumns).AddRow(1, "SP2.nft", 7, "alice", 100, 144, 1000, true, 0, 0, 55))

		l, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "alice", l.Owner)
		assert.Equal(t, uint64(100), l.PricePerBlock)
		assert.True(t, l.Available)
		assert.Equal(t, domain.AssetID{Contract: "SP2.nft", TokenID: 7}, l.Asset())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rental_listings").
			WithArgs(uint64(2)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 2)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewListingRepository(db)

	mock.ExpectExec("DELETE FROM rental_listings").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_ListExpired(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRentalRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM active_rentals WHERE end_block <= \\$1").
		WithArgs(uint64(500)).
		WillReturnRows(sqlmock.NewRows([]string{"listing_id", "rental_id", "renter", "start_block", "end_block", "total_paid", "collateral_amount"}).
			AddRow(3, 8, "bob", 100, 300, 20000, 4000).
			AddRow(1, 9, "carol", 200, 500, 1000, 200))

	rentals, err := repo.ListExpired(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, rentals, 2)
	assert.Equal(t, "bob", rentals[0].Renter)
	assert.Equal(t, uint64(4000), rentals[0].CollateralAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_Balance(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(24000))
	mock.ExpectExec("INSERT INTO account_balances").
		WithArgs("bob", uint64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	bal, err := repo.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(24000), bal)
	require.NoError(t, repo.SetBalance(ctx, "bob", 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_AppendEntry(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLedgerRepository(db)

	e := &domain.LedgerEntry{From: "bob", To: "custody", Amount: 24000, Type: domain.TransferTypeRentPayment, ListingID: 1, RentalID: 1, BlockHeight: 10}
	mock.ExpectQuery("INSERT INTO ledger_entries").
		WithArgs("bob", "custody", uint64(24000), domain.TransferTypeRentPayment, uint64(1), uint64(1), uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	require.NoError(t, repo.AppendEntry(context.Background(), e))
	assert.Equal(t, uint64(42), e.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	save := func(r *repository.Repositories) error {
		return r.Platform.Save(ctx, domain.NewPlatformState(domain.DefaultPlatformParams()))
	}

	t.Run("Commit", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE platform_state").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewStore(db).Update(ctx, save))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback on error", func(t *testing.T) {
		db, mock := newMock(t)
		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := NewStore(db).Update(ctx, func(r *repository.Repositories) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retry serialization failure", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE platform_state").WillReturnError(&pq.Error{Code: "40001"})
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE platform_state").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewStore(db).Update(ctx, save))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_View(t *testing.T) {
	ctx := context.Background()
	asset := domain.AssetID{Contract: "SP2.nft", TokenID: 7}

	t.Run("Reads share one transaction", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT listing_id FROM nft_to_listing").
			WithArgs("SP2.nft", uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"listing_id"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM rental_listings WHERE listing_id = \\$1").
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows(listingColumns).AddRow(1, "SP2.nft", 7, "alice", 100, 144, 1000, true, 0, 0, 55))
		mock.ExpectCommit()

		var owner string
		err := NewStore(db).View(ctx, func(r *repository.Repositories) error {
			id, err := r.Assets.Get(ctx, asset)
			if err != nil {
				return err
			}
			l, err := r.Listings.GetByID(ctx, id)
			if err != nil {
				return err
			}
			owner = l.Owner
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", owner)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback on error", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT listing_id FROM nft_to_listing").
			WithArgs("SP2.nft", uint64(7)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := NewStore(db).View(ctx, func(r *repository.Repositories) error {
			_, err := r.Assets.Get(ctx, asset)
			return err
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
