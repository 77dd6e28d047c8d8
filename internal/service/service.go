package service

import (
	"context"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/metrics"
)

// ListingService is the listing registry: publication, repricing and removal of
// rentable assets.
type ListingService interface {
	ListForRental(ctx context.Context, owner string, asset domain.AssetID, pricePerBlock, minDuration, maxDuration uint64) (uint64, error)
	UpdateRentalPrice(ctx context.Context, caller string, listingID, newPrice uint64) error
	RemoveListing(ctx context.Context, caller string, listingID uint64) error
	GetListing(ctx context.Context, listingID uint64) (*domain.Listing, error)
	GetListingByAsset(ctx context.Context, asset domain.AssetID) (*domain.Listing, error)
	GetTotalListings(ctx context.Context) (uint64, error)
}

// RentalService drives the per-listing rental state machine.
type RentalService interface {
	RentNFT(ctx context.Context, renter string, listingID, duration uint64) (*domain.RentReceipt, error)
	ReturnNFT(ctx context.Context, caller string, listingID uint64) error
	AutoReturnExpired(ctx context.Context, caller string, listingID uint64) error
	ResolveDispute(ctx context.Context, caller string, listingID uint64, returnToRenter bool) error
	GetActiveRental(ctx context.Context, listingID uint64) (*domain.ActiveRental, error)
	GetRentalQuote(ctx context.Context, listingID, duration uint64) (*domain.RentalQuote, error)
	IsRentalExpired(ctx context.Context, listingID uint64) (bool, error)
	ListExpiredRentals(ctx context.Context) ([]domain.ActiveRental, error)
	GetRentalHistory(ctx context.Context, user string) ([]domain.HistoryRecord, error)
}

type AdminService interface {
	SetPlatformFeeRate(ctx context.Context, caller string, rate uint64) error
	SetDurationLimits(ctx context.Context, caller string, minDuration, maxDuration uint64) error
	WithdrawPlatformFees(ctx context.Context, caller string, amount uint64) error
	FundAccount(ctx context.Context, caller, account string, amount uint64) error
	GetPlatformStats(ctx context.Context) (*domain.PlatformStats, error)
	GetPlatformParams(ctx context.Context) (*domain.PlatformParams, error)
}

type LedgerService interface {
	GetBalance(ctx context.Context, account string) (uint64, error)
	GetEntries(ctx context.Context, account string, limit int) ([]domain.LedgerEntry, error)
	GetUserStats(ctx context.Context, user string) (*domain.UserStats, error)
}

// finish logs the outcome of a public operation and counts coded rejections.
func finish(method string, err error) error {
	if err == nil {
		logger.ExitMethod(method)
		return nil
	}
	if code, ok := domain.CodeOf(err); ok {
		metrics.RecordRejection(method, code.String())
	}
	logger.ExitMethodWithError(method, err)
	return err
}
