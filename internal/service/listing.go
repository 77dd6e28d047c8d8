package service

import (
	"context"
	"errors"
	"fmt"

	"rental-escrow-backend/internal/asset"
	"rental-escrow-backend/internal/blockheight"
	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/metrics"
	"rental-escrow-backend/internal/repository"
)

type listingService struct {
	store  repository.Store
	blocks blockheight.Source
	ledger *EscrowLedger
	assets asset.Registry
}

// NewListingService builds the listing registry. assets may be nil, in which case
// ownership of the listed asset is taken on the caller's word.
func NewListingService(store repository.Store, blocks blockheight.Source, ledger *EscrowLedger, assets asset.Registry) ListingService {
	return &listingService{
		store:  store,
		blocks: blocks,
		ledger: ledger,
		assets: assets,
	}
}

func (s *listingService) ListForRental(ctx context.Context, owner string, id domain.AssetID, pricePerBlock, minDuration, maxDuration uint64) (listingID uint64, err error) {
	const method = "ListForRental"
	logger.EnterMethod(method, "owner", owner, "asset_contract", id.Contract, "token_id", id.TokenID)
	defer func() { err = finish(method, err) }()

	if owner == s.ledger.Custody() {
		return 0, domain.Errorf(domain.CodeUnauthorized, "custody account cannot list assets")
	}
	if pricePerBlock == 0 {
		return 0, domain.Errorf(domain.CodeInvalidAmount, "price per block must be positive")
	}
	if minDuration > maxDuration {
		return 0, domain.Errorf(domain.CodeInvalidDuration, "min duration %d exceeds max %d", minDuration, maxDuration)
	}
	if err := s.verifyOwnership(ctx, owner, id); err != nil {
		return 0, err
	}
	height, err := s.blocks.Current(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read block height: %w", err)
	}

	err = s.store.Update(ctx, func(r *repository.Repositories) error {
		p, err := loadPlatform(ctx, r)
		if err != nil {
			return err
		}
		if minDuration < p.Params.MinRentalDuration || maxDuration > p.Params.MaxRentalDuration {
			return domain.Errorf(domain.CodeInvalidDuration, "durations must lie within [%d, %d]", p.Params.MinRentalDuration, p.Params.MaxRentalDuration)
		}
		if _, err := r.Assets.Get(ctx, id); err == nil {
			return domain.Errorf(domain.CodeAlreadyListed, "asset %s/%d is already listed", id.Contract, id.TokenID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		listingID = p.AllocateListingID()
		listing := &domain.Listing{
			ID:            listingID,
			AssetContract: id.Contract,
			TokenID:       id.TokenID,
			Owner:         owner,
			PricePerBlock: pricePerBlock,
			MinDuration:   minDuration,
			MaxDuration:   maxDuration,
			Available:     true,
			CreatedAt:     height,
		}
		if err := r.Listings.Create(ctx, listing); err != nil {
			return err
		}
		if err := r.Assets.Put(ctx, id, listingID); err != nil {
			return err
		}
		return r.Platform.Save(ctx, p)
	})
	if err != nil {
		return 0, err
	}

	metrics.RecordTransition("listed")
	logger.Transition("listed", listingID, "owner", owner, "price_per_block", pricePerBlock)
	return listingID, nil
}

// verifyOwnership checks the external registry when one is configured. Nothing is
// transferred into custody: a rental only ever moves payment.
func (s *listingService) verifyOwnership(ctx context.Context, owner string, id domain.AssetID) error {
	if s.assets == nil {
		return nil
	}
	holder, err := s.assets.OwnerOf(ctx, id)
	if errors.Is(err, asset.ErrUnknownAsset) {
		return domain.Errorf(domain.CodeNotFound, "asset %s/%d is unknown", id.Contract, id.TokenID)
	}
	if err != nil {
		return fmt.Errorf("failed to query asset owner: %w", err)
	}
	if holder != owner {
		return domain.Errorf(domain.CodeUnauthorized, "%s does not own asset %s/%d", owner, id.Contract, id.TokenID)
	}
	return nil
}

func (s *listingService) UpdateRentalPrice(ctx context.Context, caller string, listingID, newPrice uint64) (err error) {
	const method = "UpdateRentalPrice"
	logger.EnterMethod(method, "caller", caller, "listing_id", listingID)
	defer func() { err = finish(method, err) }()

	err = s.store.Update(ctx, func(r *repository.Repositories) error {
		l, err := loadListing(ctx, r, listingID)
		if err != nil {
			return err
		}
		if l.Owner != caller {
			return domain.Errorf(domain.CodeUnauthorized, "only the listing owner may reprice")
		}
		active, err := hasActiveRental(ctx, r, listingID)
		if err != nil {
			return err
		}
		if active || !l.Available {
			return domain.Errorf(domain.CodeRentalActive, "listing %d is rented", listingID)
		}
		if newPrice == 0 {
			return domain.Errorf(domain.CodeInvalidAmount, "price per block must be positive")
		}
		l.PricePerBlock = newPrice
		return r.Listings.Update(ctx, l)
	})
	if err != nil {
		return err
	}

	logger.Transition("repriced", listingID, "price_per_block", newPrice)
	return nil
}

func (s *listingService) RemoveListing(ctx context.Context, caller string, listingID uint64) (err error) {
	const method = "RemoveListing"
	logger.EnterMethod(method, "caller", caller, "listing_id", listingID)
	defer func() { err = finish(method, err) }()

	err = s.store.Update(ctx, func(r *repository.Repositories) error {
		l, err := loadListing(ctx, r, listingID)
		if err != nil {
			return err
		}
		if l.Owner != caller {
			return domain.Errorf(domain.CodeUnauthorized, "only the listing owner may remove it")
		}
		active, err := hasActiveRental(ctx, r, listingID)
		if err != nil {
			return err
		}
		if active || !l.Available {
			return domain.Errorf(domain.CodeRentalActive, "listing %d is rented", listingID)
		}
		if err := r.Assets.Delete(ctx, l.Asset()); err != nil {
			return fmt.Errorf("failed to drop asset index: %w", err)
		}
		return r.Listings.Delete(ctx, listingID)
	})
	if err != nil {
		return err
	}

	metrics.RecordTransition("removed")
	logger.Transition("removed", listingID)
	return nil
}

func (s *listingService) GetListing(ctx context.Context, listingID uint64) (*domain.Listing, error) {
	var l *domain.Listing
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		var err error
		l, err = loadListing(ctx, r, listingID)
		return err
	})
	return l, err
}

func (s *listingService) GetListingByAsset(ctx context.Context, id domain.AssetID) (*domain.Listing, error) {
	var l *domain.Listing
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		listingID, err := r.Assets.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Errorf(domain.CodeNotFound, "asset %s/%d is not listed", id.Contract, id.TokenID)
		}
		if err != nil {
			return err
		}
		l, err = loadListing(ctx, r, listingID)
		return err
	})
	return l, err
}

// GetTotalListings is the number of listings ever created, removed ones included.
func (s *listingService) GetTotalListings(ctx context.Context) (uint64, error) {
	var total uint64
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		p, err := loadPlatform(ctx, r)
		if err != nil {
			return err
		}
		total = p.NextListingID - 1
		return nil
	})
	return total, err
}
