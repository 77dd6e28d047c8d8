package service

import (
	"context"
	"fmt"

	"rental-escrow-backend/internal/blockheight"
	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/metrics"
	"rental-escrow-backend/internal/repository"
)

type adminService struct {
	store   repository.Store
	blocks  blockheight.Source
	ledger  *EscrowLedger
	auth    Authorizer
	revenue RevenueAccumulator
}

func NewAdminService(
	store repository.Store,
	blocks blockheight.Source,
	ledger *EscrowLedger,
	auth Authorizer,
) AdminService {
	return &adminService{
		store:  store,
		blocks: blocks,
		ledger: ledger,
		auth:   auth,
	}
}

// SetPlatformFeeRate changes the fee applied to future rentals. Live rentals keep the
// split they were priced with.
func (s *adminService) SetPlatformFeeRate(ctx context.Context, caller string, rate uint64) (err error) {
	const method = "SetPlatformFeeRate"
	logger.EnterMethod(method, "caller", caller, "rate", rate)
	defer func() { err = finish(method, err) }()

	if err := s.auth.RequireAdmin(caller); err != nil {
		return err
	}
	if rate > domain.MaxPlatformFeeRate {
		return domain.Errorf(domain.CodeInvalidAmount, "fee rate %d exceeds %d", rate, domain.MaxPlatformFeeRate)
	}
	err = s.store.Update(ctx, func(r *repository.Repositories) error {
		p, err := loadPlatform(ctx, r)
		if err != nil {
			return err
		}
		p.Params.FeeRateBps = rate
		return r.Platform.Save(ctx, p)
	})
	if err != nil {
		return err
	}
	logger.Info("Platform fee rate updated", "rate", rate)
	return nil
}

// SetDurationLimits changes the bounds applied to future listings. Existing listings
// keep the bounds they were created with.
func (s *adminService) SetDurationLimits(ctx context.Context, caller string, minDuration, maxDuration uint64) (err error) {
	const method = "SetDurationLimits"
	logger.EnterMethod(method, "caller", caller, "min", minDuration, "max", maxDuration)
	defer func() { err = finish(method, err) }()

	if err := s.auth.RequireAdmin(caller); err != nil {
		return err
	}
	if minDuration == 0 || minDuration >= maxDuration {
		return domain.Errorf(domain.CodeInvalidDuration, "limits must satisfy 0 < min < max, got [%d, %d]", minDuration, maxDuration)
	}
	err = s.store.Update(ctx, func(r *repository.Repositories) error {
		p, err := loadPlatform(ctx, r)
		if err != nil {
			return err
		}
		p.Params.MinRentalDuration = minDuration
		p.Params.MaxRentalDuration = maxDuration
		return r.Platform.Save(ctx, p)
	})
	if err != nil {
		return err
	}
	logger.Info("Rental duration limits updated", "min", minDuration, "max", maxDuration)
	return nil
}

// WithdrawPlatformFees pays accrued platform revenue out of custody to the admin.
// Collateral held for live rentals is never touched.
func (s *adminService) WithdrawPlatformFees(ctx context.Context, caller string, amount uint64) (err error) {
	const method = "WithdrawPlatformFees"
	logger.EnterMethod(method, "caller", caller, "amount", amount)
	defer func() { err = finish(method, err) }()

	if err := s.auth.RequireAdmin(caller); err != nil {
		return err
	}
	height, err := s.blocks.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to read block height: %w", err)
	}

	var remaining uint64
	err = s.store.Update(ctx, func(r *repository.Repositories) error {
		p, err := loadPlatform(ctx, r)
		if err != nil {
			return err
		}
		if err := s.revenue.Deduct(p, amount); err != nil {
			return err
		}
		ref := transferRef{Type: domain.TransferTypeFeeWithdrawal, Height: height}
		if err := s.ledger.Pay(ctx, r, caller, amount, ref); err != nil {
			return err
		}
		remaining = p.TotalRevenue
		return r.Platform.Save(ctx, p)
	})
	if err != nil {
		return err
	}

	metrics.RecordValueMoved(string(domain.TransferTypeFeeWithdrawal), amount)
	metrics.SetPlatformRevenue(remaining)
	logger.Info("Platform fees withdrawn", "amount", amount, "remaining", remaining)
	return nil
}

// FundAccount credits an account with value from outside the market, standing in for
// the native-asset transfer a renter would attach to a payment.
func (s *adminService) FundAccount(ctx context.Context, caller, account string, amount uint64) (err error) {
	const method = "FundAccount"
	logger.EnterMethod(method, "caller", caller, "account", account, "amount", amount)
	defer func() { err = finish(method, err) }()

	if err := s.auth.RequireAdmin(caller); err != nil {
		return err
	}
	if account == "" || amount == 0 {
		return domain.Errorf(domain.CodeInvalidAmount, "funding needs an account and a positive amount")
	}
	if account == s.ledger.Custody() {
		return domain.Errorf(domain.CodeUnauthorized, "custody account cannot be funded directly")
	}
	height, err := s.blocks.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to read block height: %w", err)
	}
	err = s.store.Update(ctx, func(r *repository.Repositories) error {
		return s.ledger.Fund(ctx, r, account, amount, height)
	})
	if err != nil {
		return err
	}
	metrics.RecordValueMoved(string(domain.TransferTypeFunding), amount)
	return nil
}

func (s *adminService) GetPlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	var stats *domain.PlatformStats
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		p, err := loadPlatform(ctx, r)
		if err != nil {
			return err
		}
		stats = &domain.PlatformStats{
			TotalListings:   p.NextListingID - 1,
			TotalRentals:    p.NextRentalID - 1,
			PlatformRevenue: p.TotalRevenue,
			PlatformFeeRate: p.Params.FeeRateBps,
		}
		return nil
	})
	return stats, err
}

func (s *adminService) GetPlatformParams(ctx context.Context) (*domain.PlatformParams, error) {
	var params *domain.PlatformParams
	err := s.store.View(ctx, func(r *repository.Repositories) error {
		p, err := loadPlatform(ctx, r)
		if err != nil {
			return err
		}
		params = &p.Params
		return nil
	})
	return params, err
}
