package postgres

import (
	"context"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
)

type rentalRepository struct {
	db querier
}

func NewRentalRepository(db querier) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.ActiveRental) error {
	query := `INSERT INTO active_rentals (listing_id, rental_id, renter, start_block, end_block, total_paid, collateral_amount)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, rt.ListingID, rt.RentalID, rt.Renter, rt.StartBlock, rt.EndBlock, rt.TotalPaid, rt.CollateralAmount)
	return err
}

func (r *rentalRepository) GetByListing(ctx context.Context, listingID uint64) (*domain.ActiveRental, error) {
	rt := &domain.ActiveRental{}
	query := `SELECT listing_id, rental_id, renter, start_block, end_block, total_paid, collateral_amount FROM active_rentals WHERE listing_id = $1`
	err := r.db.QueryRowContext(ctx, query, listingID).Scan(&rt.ListingID, &rt.RentalID, &rt.Renter, &rt.StartBlock, &rt.EndBlock, &rt.TotalPaid, &rt.CollateralAmount)
	if err != nil {
		return nil, notFound(err)
	}
	return rt, nil
}

func (r *rentalRepository) Delete(ctx context.Context, listingID uint64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM active_rentals WHERE listing_id = $1`, listingID))
}

func (r *rentalRepository) ListExpired(ctx context.Context, height uint64) ([]domain.ActiveRental, error) {
	query := `SELECT listing_id, rental_id, renter, start_block, end_block, total_paid, collateral_amount
	          FROM active_rentals WHERE end_block <= $1 ORDER BY end_block ASC`
	rows, err := r.db.QueryContext(ctx, query, height)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.ActiveRental
	for rows.Next() {
		var rt domain.ActiveRental
		if err := rows.Scan(&rt.ListingID, &rt.RentalID, &rt.Renter, &rt.StartBlock, &rt.EndBlock, &rt.TotalPaid, &rt.CollateralAmount); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}

type historyRepository struct {
	db querier
}

func NewHistoryRepository(db querier) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, rec *domain.HistoryRecord) error {
	query := `INSERT INTO rental_history (user_id, rental_id, listing_id, action, block_height, amount) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, rec.User, rec.RentalID, rec.ListingID, rec.Action, rec.BlockHeight, rec.Amount)
	return err
}

func (r *historyRepository) ListByUser(ctx context.Context, user string) ([]domain.HistoryRecord, error) {
	query := `SELECT user_id, rental_id, listing_id, action, block_height, amount FROM rental_history WHERE user_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		if err := rows.Scan(&rec.User, &rec.RentalID, &rec.ListingID, &rec.Action, &rec.BlockHeight, &rec.Amount); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
