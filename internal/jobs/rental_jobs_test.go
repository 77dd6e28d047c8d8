package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-escrow-backend/internal/blockheight"
	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository/memory"
	"rental-escrow-backend/internal/service"
)

type MockExpiryService struct {
	mock.Mock
}

func (m *MockExpiryService) ListExpiredRentals(ctx context.Context) ([]domain.ActiveRental, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ActiveRental), args.Error(1)
}

func (m *MockExpiryService) AutoReturnExpired(ctx context.Context, caller string, listingID uint64) error {
	args := m.Called(ctx, caller, listingID)
	return args.Error(0)
}

func TestSweepExpired_Outcomes(t *testing.T) {
	ctx := context.Background()
	svc := new(MockExpiryService)
	svc.On("ListExpiredRentals", ctx).Return([]domain.ActiveRental{{ListingID: 1}, {ListingID: 2}, {ListingID: 3}}, nil)
	svc.On("AutoReturnExpired", ctx, "sweeper", uint64(1)).Return(nil)
	svc.On("AutoReturnExpired", ctx, "sweeper", uint64(2)).Return(domain.Errorf(domain.CodeNotFound, "gone"))
	svc.On("AutoReturnExpired", ctx, "sweeper", uint64(3)).Return(errors.New("db down"))

	jr := NewJobRunner(svc, "sweeper", nil)
	res, err := jr.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Returned: 1, Skipped: 1, Failed: 1}, res)
	svc.AssertExpectations(t)
}

func TestSweepExpired_ListFailure(t *testing.T) {
	ctx := context.Background()
	svc := new(MockExpiryService)
	svc.On("ListExpiredRentals", ctx).Return([]domain.ActiveRental(nil), errors.New("db down"))

	jr := NewJobRunner(svc, "sweeper", nil)
	_, err := jr.SweepExpired(ctx)
	assert.Error(t, err)
	svc.AssertNotCalled(t, "AutoReturnExpired", mock.Anything, mock.Anything, mock.Anything)

	// the scheduled wrapper swallows the failure
	jr.AutoReturnExpiredRentals()
}

func TestSweepExpired_AgainstMarket(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(domain.DefaultPlatformParams())
	blocks := blockheight.NewManual(0)
	escrow := service.NewEscrowLedger("custody")
	auth := service.NewAuthorizer("admin")
	listings := service.NewListingService(store, blocks, escrow, nil)
	rentals := service.NewRentalService(store, blocks, escrow, auth)
	admin := service.NewAdminService(store, blocks, escrow, auth)
	ledger := service.NewLedgerService(store)

	require.NoError(t, admin.FundAccount(ctx, "admin", "bob", 1_000_000))
	for token, duration := range map[uint64]uint64{1: 144, 2: 300} {
		id, err := listings.ListForRental(ctx, "alice", domain.AssetID{Contract: "0xnft", TokenID: token}, 10, 144, 1000)
		require.NoError(t, err)
		_, err = rentals.RentNFT(ctx, "bob", id, duration)
		require.NoError(t, err)
	}

	jr := NewJobRunner(rentals, "sweeper", nil)
	blocks.Set(200)
	res, err := jr.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Returned: 1}, res)

	blocks.Set(300)
	res, err = jr.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Returned: 1}, res)

	stats, err := admin.GetPlatformStats(ctx)
	require.NoError(t, err)
	custody, err := ledger.GetBalance(ctx, "custody")
	require.NoError(t, err)
	assert.Equal(t, stats.PlatformRevenue, custody)
}
