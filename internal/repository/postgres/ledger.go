package postgres

import (
	"context"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
)

type ledgerRepository struct {
	db querier
}

func NewLedgerRepository(db querier) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetBalance(ctx context.Context, account string) (uint64, error) {
	var balance uint64
	query := `SELECT COALESCE((SELECT balance FROM account_balances WHERE account = $1), 0)`
	err := r.db.QueryRowContext(ctx, query, account).Scan(&balance)
	return balance, err
}

func (r *ledgerRepository) SetBalance(ctx context.Context, account string, balance uint64) error {
	query := `INSERT INTO account_balances (account, balance) VALUES ($1, $2)
	          ON CONFLICT (account) DO UPDATE SET balance = EXCLUDED.balance`
	_, err := r.db.ExecContext(ctx, query, account, balance)
	return err
}

func (r *ledgerRepository) AppendEntry(ctx context.Context, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (from_account, to_account, amount, type, listing_id, rental_id, block_height)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, e.From, e.To, e.Amount, e.Type, e.ListingID, e.RentalID, e.BlockHeight).Scan(&e.ID)
}

// ListEntries returns the newest entries touching account first. limit <= 0 means no limit.
func (r *ledgerRepository) ListEntries(ctx context.Context, account string, limit int) ([]domain.LedgerEntry, error) {
	query := `SELECT id, from_account, to_account, amount, type, listing_id, rental_id, block_height
	          FROM ledger_entries WHERE from_account = $1 OR to_account = $1 ORDER BY id DESC`
	args := []any{account}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.From, &e.To, &e.Amount, &e.Type, &e.ListingID, &e.RentalID, &e.BlockHeight); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
