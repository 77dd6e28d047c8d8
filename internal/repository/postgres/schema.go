package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS rental_listings (
	listing_id      BIGINT PRIMARY KEY,
	asset_contract  TEXT NOT NULL,
	token_id        BIGINT NOT NULL,
	owner           TEXT NOT NULL,
	price_per_block BIGINT NOT NULL CHECK (price_per_block > 0),
	min_duration    BIGINT NOT NULL,
	max_duration    BIGINT NOT NULL,
	available       BOOLEAN NOT NULL,
	total_earned    BIGINT NOT NULL DEFAULT 0,
	rental_count    BIGINT NOT NULL DEFAULT 0,
	created_at      BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS nft_to_listing (
	asset_contract TEXT NOT NULL,
	token_id       BIGINT NOT NULL,
	listing_id     BIGINT NOT NULL UNIQUE REFERENCES rental_listings (listing_id),
	PRIMARY KEY (asset_contract, token_id)
);

CREATE TABLE IF NOT EXISTS active_rentals (
	listing_id        BIGINT PRIMARY KEY REFERENCES rental_listings (listing_id),
	rental_id         BIGINT NOT NULL UNIQUE,
	renter            TEXT NOT NULL,
	start_block       BIGINT NOT NULL,
	end_block         BIGINT NOT NULL,
	total_paid        BIGINT NOT NULL,
	collateral_amount BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS active_rentals_end_block_idx ON active_rentals (end_block);

CREATE TABLE IF NOT EXISTS rental_history (
	id           BIGSERIAL PRIMARY KEY,
	user_id      TEXT NOT NULL,
	rental_id    BIGINT NOT NULL,
	listing_id   BIGINT NOT NULL,
	action       TEXT NOT NULL,
	block_height BIGINT NOT NULL,
	amount       BIGINT NOT NULL,
	UNIQUE (user_id, rental_id, action)
);

CREATE TABLE IF NOT EXISTS user_stats (
	user_id          TEXT PRIMARY KEY,
	total_rentals    BIGINT NOT NULL,
	total_spent      BIGINT NOT NULL,
	total_earned     BIGINT NOT NULL,
	reputation_score BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS account_balances (
	account TEXT PRIMARY KEY,
	balance BIGINT NOT NULL CHECK (balance >= 0)
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id           BIGSERIAL PRIMARY KEY,
	from_account TEXT NOT NULL DEFAULT '',
	to_account   TEXT NOT NULL,
	amount       BIGINT NOT NULL,
	type         TEXT NOT NULL,
	listing_id   BIGINT NOT NULL DEFAULT 0,
	rental_id    BIGINT NOT NULL DEFAULT 0,
	block_height BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS platform_state (
	id                     SMALLINT PRIMARY KEY CHECK (id = 1),
	platform_fee_rate      BIGINT NOT NULL,
	min_rental_duration    BIGINT NOT NULL,
	max_rental_duration    BIGINT NOT NULL,
	next_listing_id        BIGINT NOT NULL,
	next_rental_id         BIGINT NOT NULL,
	total_platform_revenue BIGINT NOT NULL
);
`

// Migrate creates the tables if needed and seeds the platform row with params.
// An existing platform row is left untouched.
func Migrate(ctx context.Context, db *sql.DB, params domain.PlatformParams) error {
	logger.Info("Applying database schema")
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	seed := domain.NewPlatformState(params)
	query := `INSERT INTO platform_state (id, platform_fee_rate, min_rental_duration, max_rental_duration, next_listing_id, next_rental_id, total_platform_revenue)
	          VALUES (1, $1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`
	if _, err := db.ExecContext(ctx, query, seed.Params.FeeRateBps, seed.Params.MinRentalDuration, seed.Params.MaxRentalDuration, seed.NextListingID, seed.NextRentalID, seed.TotalRevenue); err != nil {
		return fmt.Errorf("failed to seed platform state: %w", err)
	}
	return nil
}
