package postgres

import (
	"context"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
)

type userStatsRepository struct {
	db querier
}

func NewUserStatsRepository(db querier) repository.UserStatsRepository {
	return &userStatsRepository{db: db}
}

func (r *userStatsRepository) Get(ctx context.Context, user string) (*domain.UserStats, error) {
	s := &domain.UserStats{}
	query := `SELECT user_id, total_rentals, total_spent, total_earned, reputation_score FROM user_stats WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, user).Scan(&s.User, &s.TotalRentals, &s.TotalSpent, &s.TotalEarned, &s.ReputationScore)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *userStatsRepository) Save(ctx context.Context, s *domain.UserStats) error {
	query := `INSERT INTO user_stats (user_id, total_rentals, total_spent, total_earned, reputation_score) VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id) DO UPDATE SET total_rentals = EXCLUDED.total_rentals, total_spent = EXCLUDED.total_spent,
	          total_earned = EXCLUDED.total_earned, reputation_score = EXCLUDED.reputation_score`
	_, err := r.db.ExecContext(ctx, query, s.User, s.TotalRentals, s.TotalSpent, s.TotalEarned, s.ReputationScore)
	return err
}

type platformRepository struct {
	db querier
}

func NewPlatformRepository(db querier) repository.PlatformRepository {
	return &platformRepository{db: db}
}

func (r *platformRepository) Get(ctx context.Context) (*domain.PlatformState, error) {
	p := &domain.PlatformState{}
	query := `SELECT platform_fee_rate, min_rental_duration, max_rental_duration, next_listing_id, next_rental_id, total_platform_revenue
	          FROM platform_state WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&p.Params.FeeRateBps, &p.Params.MinRentalDuration, &p.Params.MaxRentalDuration, &p.NextListingID, &p.NextRentalID, &p.TotalRevenue)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *platformRepository) Save(ctx context.Context, p *domain.PlatformState) error {
	query := `UPDATE platform_state SET platform_fee_rate=$1, min_rental_duration=$2, max_rental_duration=$3,
	          next_listing_id=$4, next_rental_id=$5, total_platform_revenue=$6 WHERE id = 1`
	return expectOne(r.db.ExecContext(ctx, query, p.Params.FeeRateBps, p.Params.MinRentalDuration, p.Params.MaxRentalDuration, p.NextListingID, p.NextRentalID, p.TotalRevenue))
}
