package service

import (
	"context"
	"errors"
	"fmt"

	"rental-escrow-backend/internal/blockheight"
	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/metrics"
	"rental-escrow-backend/internal/repository"
	"rental-escrow-backend/internal/utils"
)

type rentalService struct {
	store   repository.Store
	blocks  blockheight.Source
	ledger  *EscrowLedger
	auth    Authorizer
	tracker StatsTracker
	revenue RevenueAccumulator
}

func NewRentalService(
	store repository.Store,
	blocks blockheight.Source,
	ledger *EscrowLedger,
	auth Authorizer,
) RentalService {
	return &rentalService{
		store:  store,
		blocks: blocks,
		ledger: ledger,
		auth:   auth,
	}
}

// RentNFT moves a listing from available to rented. The renter prepays cost plus
// collateral into custody, the owner is paid their share immediately, and the platform
// fee stays in custody as revenue. Nothing is written unless every step succeeds.
func (s *rentalService) RentNFT(ctx context.Context, renter string, listingID, duration uint64) (receipt *domain.RentReceipt, err error) {
	const method = "RentNFT"
	logger.EnterMethod(method, "renter", renter, "listing_id", listingID, "duration", duration)
	defer func() { err = finish(method, err) }()

	if renter == s.ledger.Custody() {
		return nil, domain.Errorf(domain.CodeUnauthorized, "custody account cannot rent")
	}
	height, err := s.blocks.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read block height: %w", err)
	}

	var quote *domain.RentalQuote
	var owner string
	err = s.store.Update(ctx, func(r *repository.Repositories) error {
		l, err := loadListing(ctx, r, listingID)
		if err != nil {
			return err
		}
		if !l.Available {
			return domain.Errorf(domain.CodeNotAvailable, "listing %d is rented", listingID)
		}
		if renter == l.Owner {
			return domain.Errorf(domain.CodeUnauthorized, "owner cannot rent their own listing")
		}
		if duration < l.MinDuration || duration > l.MaxDuration {
			return domain.Errorf(domain.CodeInvalidDuration, "duration %d outside [%d, %d]", duration, l.MinDuration, l.MaxDuration)
		}
		active, err := hasActiveRental(ctx, r, listingID)
		if err != nil {
			return err
		}
		if active {
			return domain.Errorf(domain.CodeRentalActive, "listing %d already has an active rental", listingID)
		}

		p, err := loadPlatform(ctx, r)
		if err != nil {
			return err
		}
		q, err := utils.CalculateRentalQuote(l.PricePerBlock, duration, p.Params.FeeRateBps)
		if err != nil {
			return err
		}
		endBlock, err := utils.CheckedAdd(height, duration)
		if err != nil {
			return domain.Errorf(domain.CodeInvalidDuration, "rental would end past the last block")
		}
		rentalID := p.AllocateRentalID()
		ref := transferRef{ListingID: listingID, RentalID: rentalID, Height: height}

		ref.Type = domain.TransferTypeRentPayment
		if err := s.ledger.Collect(ctx, r, renter, q.TotalPayment, ref); err != nil {
			return err
		}
		ref.Type = domain.TransferTypeOwnerPayout
		if err := s.ledger.Pay(ctx, r, l.Owner, q.OwnerPayment, ref); err != nil {
			return err
		}

		if err := r.Rentals.Create(ctx, &domain.ActiveRental{
			ListingID:        listingID,
			RentalID:         rentalID,
			Renter:           renter,
			StartBlock:       height,
			EndBlock:         endBlock,
			TotalPaid:        q.RentalCost,
			CollateralAmount: q.CollateralRequired,
		}); err != nil {
			return err
		}

		l.Available = false
		if l.TotalEarned, err = utils.CheckedAdd(l.TotalEarned, q.OwnerPayment); err != nil {
			return err
		}
		l.RentalCount++
		if err := r.Listings.Update(ctx, l); err != nil {
			return err
		}

		if err := r.History.Append(ctx, &domain.HistoryRecord{
			User:        renter,
			RentalID:    rentalID,
			ListingID:   listingID,
			Action:      domain.HistoryActionRented,
			BlockHeight: height,
			Amount:      q.RentalCost,
		}); err != nil {
			return err
		}
		if err := s.tracker.RecordActivity(ctx, r, renter, q.RentalCost, false); err != nil {
			return err
		}
		if err := s.tracker.RecordActivity(ctx, r, l.Owner, q.OwnerPayment, true); err != nil {
			return err
		}
		if err := s.revenue.Accrue(p, q.PlatformFee); err != nil {
			return err
		}
		if err := r.Platform.Save(ctx, p); err != nil {
			return err
		}

		quote, owner = q, l.Owner
		receipt = &domain.RentReceipt{RentalID: rentalID, EndBlock: endBlock, Collateral: q.CollateralRequired}
		metrics.SetPlatformRevenue(p.TotalRevenue)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition("rented")
	metrics.RecordValueMoved(string(domain.TransferTypeRentPayment), quote.TotalPayment)
	metrics.RecordValueMoved(string(domain.TransferTypeOwnerPayout), quote.OwnerPayment)
	logger.Transition("rented", listingID,
		"rental_id", receipt.RentalID,
		"renter", renter,
		"owner", owner,
		"total_payment", quote.TotalPayment,
		"owner_payment", quote.OwnerPayment,
		"platform_fee", quote.PlatformFee,
		"collateral", quote.CollateralRequired,
		"end_block", receipt.EndBlock)
	return receipt, nil
}

// ReturnNFT ends the rental at the renter's request and refunds the collateral.
func (s *rentalService) ReturnNFT(ctx context.Context, caller string, listingID uint64) (err error) {
	const method = "ReturnNFT"
	logger.EnterMethod(method, "caller", caller, "listing_id", listingID)
	defer func() { err = finish(method, err) }()

	return s.close(ctx, "returned", listingID, true, func(l *domain.Listing, rt *domain.ActiveRental, height uint64) (string, error) {
		if caller != rt.Renter {
			return "", domain.Errorf(domain.CodeUnauthorized, "only the renter may return listing %d", listingID)
		}
		return rt.Renter, nil
	})
}

// AutoReturnExpired lets anyone close a rental whose period has elapsed. The collateral
// always goes back to the renter.
func (s *rentalService) AutoReturnExpired(ctx context.Context, caller string, listingID uint64) (err error) {
	const method = "AutoReturnExpired"
	logger.EnterMethod(method, "caller", caller, "listing_id", listingID)
	defer func() { err = finish(method, err) }()

	return s.close(ctx, "auto_returned", listingID, true, func(l *domain.Listing, rt *domain.ActiveRental, height uint64) (string, error) {
		if !rt.Expired(height) {
			return "", domain.Errorf(domain.CodeRentalActive, "rental on listing %d runs until block %d", listingID, rt.EndBlock)
		}
		return rt.Renter, nil
	})
}

// ResolveDispute is the admin's terminal ruling on a rental: collateral goes to the
// renter or to the owner, and the rental is closed either way.
func (s *rentalService) ResolveDispute(ctx context.Context, caller string, listingID uint64, returnToRenter bool) (err error) {
	const method = "ResolveDispute"
	logger.EnterMethod(method, "caller", caller, "listing_id", listingID, "return_to_renter", returnToRenter)
	defer func() { err = finish(method, err) }()

	if err := s.auth.RequireAdmin(caller); err != nil {
		return err
	}
	return s.close(ctx, "dispute_resolved", listingID, false, func(l *domain.Listing, rt *domain.ActiveRental, height uint64) (string, error) {
		if returnToRenter {
			return rt.Renter, nil
		}
		return l.Owner, nil
	})
}

// closeGuard validates a closing transition and names who receives the collateral.
type closeGuard func(l *domain.Listing, rt *domain.ActiveRental, height uint64) (recipient string, err error)

// close runs the shared rented -> available transition: pay out the collateral, drop the
// live rental and reopen the listing. With recordReturn set the renter also gets a
// "returned" history record.
func (s *rentalService) close(ctx context.Context, transition string, listingID uint64, recordReturn bool, guard closeGuard) error {
	height, err := s.blocks.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to read block height: %w", err)
	}

	var closed domain.ActiveRental
	var recipient string
	err = s.store.Update(ctx, func(r *repository.Repositories) error {
		l, err := loadListing(ctx, r, listingID)
		if err != nil {
			return err
		}
		rt, err := loadActiveRental(ctx, r, listingID)
		if err != nil {
			return err
		}
		if recipient, err = guard(l, rt, height); err != nil {
			return err
		}

		ref := transferRef{Type: domain.TransferTypeCollateralRefund, ListingID: listingID, RentalID: rt.RentalID, Height: height}
		if recipient != rt.Renter {
			ref.Type = domain.TransferTypeCollateralClaim
		}
		if err := s.ledger.Pay(ctx, r, recipient, rt.CollateralAmount, ref); err != nil {
			return err
		}
		if err := r.Rentals.Delete(ctx, listingID); err != nil {
			return err
		}
		l.Available = true
		if err := r.Listings.Update(ctx, l); err != nil {
			return err
		}
		if recordReturn {
			if err := r.History.Append(ctx, &domain.HistoryRecord{
				User:        rt.Renter,
				RentalID:    rt.RentalID,
				ListingID:   listingID,
				Action:      domain.HistoryActionReturned,
				BlockHeight: height,
				Amount:      0,
			}); err != nil {
				return err
			}
		}
		closed = *rt
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordTransition(transition)
	if recipient == closed.Renter {
		metrics.RecordValueMoved(string(domain.TransferTypeCollateralRefund), closed.CollateralAmount)
	} else {
		metrics.RecordValueMoved(string(domain.TransferTypeCollateralClaim), closed.CollateralAmount)
	}
	logger.Transition(transition, listingID,
		"rental_id", closed.RentalID,
		"renter", closed.Renter,
		"collateral", closed.CollateralAmount,
		"collateral_to", recipient)
	return nil
}

func (s *rentalService) GetActiveRental(ctx context.Context, listingID uint64) (*domain.ActiveRental, error) {
	var rt *domain.ActiveRental
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		var err error
		rt, err = loadActiveRental(ctx, r, listingID)
		return err
	})
	return rt, err
}

// GetRentalQuote prices a rental of the listing at the current fee rate.
func (s *rentalService) GetRentalQuote(ctx context.Context, listingID, duration uint64) (*domain.RentalQuote, error) {
	var q *domain.RentalQuote
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		l, err := loadListing(ctx, r, listingID)
		if err != nil {
			return err
		}
		p, err := loadPlatform(ctx, r)
		if err != nil {
			return err
		}
		q, err = utils.CalculateRentalQuote(l.PricePerBlock, duration, p.Params.FeeRateBps)
		return err
	})
	return q, err
}

// IsRentalExpired is false for listings without an active rental.
func (s *rentalService) IsRentalExpired(ctx context.Context, listingID uint64) (bool, error) {
	height, err := s.blocks.Current(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read block height: %w", err)
	}
	var expired bool
	err = s.store.View(ctx, func(r *repository.Repositories) error {
		rt, err := r.Rentals.GetByListing(ctx, listingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}
		expired = rt.Expired(height)
		return nil
	})
	return expired, err
}

func (s *rentalService) ListExpiredRentals(ctx context.Context) ([]domain.ActiveRental, error) {
	height, err := s.blocks.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read block height: %w", err)
	}
	var expired []domain.ActiveRental
	err = s.store.View(ctx, func(r *repository.Repositories) error {
		var err error
		expired, err = r.Rentals.ListExpired(ctx, height)
		return err
	})
	return expired, err
}

func (s *rentalService) GetRentalHistory(ctx context.Context, user string) ([]domain.HistoryRecord, error) {
	var records []domain.HistoryRecord
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		var err error
		records, err = r.History.ListByUser(ctx, user)
		return err
	})
	return records, err
}
