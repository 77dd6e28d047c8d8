package service

import (
	"context"
	"errors"
	"fmt"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
)

func loadListing(ctx context.Context, r *repository.Repositories, id uint64) (*domain.Listing, error) {
	l, err := r.Listings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.Errorf(domain.CodeNotFound, "listing %d", id)
	}
	return l, err
}

func loadActiveRental(ctx context.Context, r *repository.Repositories, listingID uint64) (*domain.ActiveRental, error) {
	rt, err := r.Rentals.GetByListing(ctx, listingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.Errorf(domain.CodeNotFound, "no active rental for listing %d", listingID)
	}
	return rt, err
}

// hasActiveRental reports whether a live rental record exists for the listing.
func hasActiveRental(ctx context.Context, r *repository.Repositories, listingID uint64) (bool, error) {
	_, err := r.Rentals.GetByListing(ctx, listingID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func loadPlatform(ctx context.Context, r *repository.Repositories) (*domain.PlatformState, error) {
	p, err := r.Platform.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform state: %w", err)
	}
	return p, nil
}
