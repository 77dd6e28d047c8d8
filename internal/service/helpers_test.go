package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rental-escrow-backend/internal/blockheight"
	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository/memory"
	"rental-escrow-backend/internal/service"
)

const (
	admin   = "admin"
	custody = "custody"
	owner   = "alice"
	renter  = "bob"
)

type market struct {
	store    *memory.Store
	blocks   *blockheight.Manual
	listings service.ListingService
	rentals  service.RentalService
	admin    service.AdminService
	ledger   service.LedgerService
}

func newMarket(t *testing.T) *market {
	t.Helper()
	store := memory.NewStore(domain.DefaultPlatformParams())
	blocks := blockheight.NewManual(1000)
	escrow := service.NewEscrowLedger(custody)
	auth := service.NewAuthorizer(admin)
	return &market{
		store:    store,
		blocks:   blocks,
		listings: service.NewListingService(store, blocks, escrow, nil),
		rentals:  service.NewRentalService(store, blocks, escrow, auth),
		admin:    service.NewAdminService(store, blocks, escrow, auth),
		ledger:   service.NewLedgerService(store),
	}
}

func (m *market) fund(t *testing.T, account string, amount uint64) {
	t.Helper()
	require.NoError(t, m.admin.FundAccount(context.Background(), admin, account, amount))
}

func (m *market) balance(t *testing.T, account string) uint64 {
	t.Helper()
	b, err := m.ledger.GetBalance(context.Background(), account)
	require.NoError(t, err)
	return b
}

// list publishes a listing priced at price per block with bounds [144, 1000].
func (m *market) list(t *testing.T, token, price uint64) uint64 {
	t.Helper()
	id, err := m.listings.ListForRental(context.Background(), owner, domain.AssetID{Contract: "0xnft", TokenID: token}, price, 144, 1000)
	require.NoError(t, err)
	return id
}

func assertCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	got, ok := domain.CodeOf(err)
	require.True(t, ok, "expected coded error, got %v", err)
	require.Equal(t, code, got, err.Error())
}
