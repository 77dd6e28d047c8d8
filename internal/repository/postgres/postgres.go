package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/repository"
)

// serializationFailure is the SQLSTATE postgres reports when a SERIALIZABLE
// transaction loses a conflict with a concurrent one.
const serializationFailure = "40001"

const defaultMaxRetries = 3

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db         *sql.DB
	maxRetries int
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, maxRetries: defaultMaxRetries}
}

var (
	readOpts  = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}
	writeOpts = &sql.TxOptions{Isolation: sql.LevelSerializable}
)

// View runs fn inside a read-only REPEATABLE READ transaction so every read in fn sees
// the same snapshot.
func (s *Store) View(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return s.runTx(ctx, readOpts, fn)
}

// Update runs fn inside one SERIALIZABLE transaction. Serialization conflicts are
// retried from scratch; any other error rolls the transaction back and is returned.
func (s *Store) Update(ctx context.Context, fn func(r *repository.Repositories) error) error {
	for attempt := 0; ; attempt++ {
		err := s.runTx(ctx, writeOpts, fn)
		if err == nil || !isSerializationFailure(err) || attempt >= s.maxRetries {
			return err
		}
		logger.Warn("Retrying serialization failure", "attempt", attempt+1)
	}
}

func (s *Store) runTx(ctx context.Context, opts *sql.TxOptions, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == serializationFailure
}

func bind(q querier) *repository.Repositories {
	return &repository.Repositories{
		Listings: NewListingRepository(q),
		Assets:   NewAssetIndexRepository(q),
		Rentals:  NewRentalRepository(q),
		History:  NewHistoryRepository(q),
		Stats:    NewUserStatsRepository(q),
		Ledger:   NewLedgerRepository(q),
		Platform: NewPlatformRepository(q),
	}
}

// notFound maps sql.ErrNoRows to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// expectOne turns a zero-row exec result into repository.ErrNotFound.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
