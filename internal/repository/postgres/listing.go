package postgres

import (
	"context"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/repository"
)

type listingRepository struct {
	db querier
}

func NewListingRepository(db querier) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO rental_listings (listing_id, asset_contract, token_id, owner, price_per_block, min_duration, max_duration, available, total_earned, rental_count, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	logger.DatabaseCall("insert", "rental_listings", "listing_id", l.ID)
	res, err := r.db.ExecContext(ctx, query, l.ID, l.AssetContract, l.TokenID, l.Owner, l.PricePerBlock, l.MinDuration, l.MaxDuration, l.Available, l.TotalEarned, l.RentalCount, l.CreatedAt)
	var n int64
	if err == nil {
		n, _ = res.RowsAffected()
	}
	logger.DatabaseResult("insert", n, err)
	return err
}

func (r *listingRepository) GetByID(ctx context.Context, id uint64) (*domain.Listing, error) {
	l := &domain.Listing{}
	query := `SELECT listing_id, asset_contract, token_id, owner, price_per_block, min_duration, max_duration, available, total_earned, rental_count, created_at
	          FROM rental_listings WHERE listing_id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.AssetContract, &l.TokenID, &l.Owner, &l.PricePerBlock, &l.MinDuration, &l.MaxDuration, &l.Available, &l.TotalEarned, &l.RentalCount, &l.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE rental_listings SET price_per_block=$1, available=$2, total_earned=$3, rental_count=$4 WHERE listing_id=$5`
	return expectOne(r.db.ExecContext(ctx, query, l.PricePerBlock, l.Available, l.TotalEarned, l.RentalCount, l.ID))
}

func (r *listingRepository) Delete(ctx context.Context, id uint64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM rental_listings WHERE listing_id = $1`, id))
}

type assetIndexRepository struct {
	db querier
}

func NewAssetIndexRepository(db querier) repository.AssetIndexRepository {
	return &assetIndexRepository{db: db}
}

func (r *assetIndexRepository) Put(ctx context.Context, asset domain.AssetID, listingID uint64) error {
	query := `INSERT INTO nft_to_listing (asset_contract, token_id, listing_id) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, asset.Contract, asset.TokenID, listingID)
	return err
}

func (r *assetIndexRepository) Get(ctx context.Context, asset domain.AssetID) (uint64, error) {
	var id uint64
	query := `SELECT listing_id FROM nft_to_listing WHERE asset_contract = $1 AND token_id = $2`
	if err := r.db.QueryRowContext(ctx, query, asset.Contract, asset.TokenID).Scan(&id); err != nil {
		return 0, notFound(err)
	}
	return id, nil
}

func (r *assetIndexRepository) Delete(ctx context.Context, asset domain.AssetID) error {
	query := `DELETE FROM nft_to_listing WHERE asset_contract = $1 AND token_id = $2`
	return expectOne(r.db.ExecContext(ctx, query, asset.Contract, asset.TokenID))
}
