package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-escrow-backend/internal/blockheight"
	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository/memory"
	"rental-escrow-backend/internal/service"
)

func newRouter(t *testing.T) (*mux.Router, *blockheight.Manual) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(domain.DefaultPlatformParams())
	blocks := blockheight.NewManual(10)
	escrow := service.NewEscrowLedger("custody")
	auth := service.NewAuthorizer("admin")

	listings := service.NewListingService(store, blocks, escrow, nil)
	rentals := service.NewRentalService(store, blocks, escrow, auth)
	admin := service.NewAdminService(store, blocks, escrow, auth)

	id, err := listings.ListForRental(ctx, "alice", domain.AssetID{Contract: "0xnft", TokenID: 3}, 100, 144, 1000)
	require.NoError(t, err)
	require.NoError(t, admin.FundAccount(ctx, "admin", "bob", 24000))
	_, err = rentals.RentNFT(ctx, "bob", id, 200)
	require.NoError(t, err)

	router := mux.NewRouter()
	RegisterQueryRoutes(router, NewQueryHandler(listings, rentals, admin, service.NewLedgerService(store)))
	return router, blocks
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestQueryRoutes(t *testing.T) {
	router, blocks := newRouter(t)

	t.Run("Listing", func(t *testing.T) {
		rec := get(router, "/api/v1/listings/1")
		require.Equal(t, http.StatusOK, rec.Code)
		var l domain.Listing
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
		assert.Equal(t, "alice", l.Owner)
		assert.False(t, l.Available)
	})

	t.Run("Listing by asset", func(t *testing.T) {
		rec := get(router, "/api/v1/assets/0xnft/3")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing listing", func(t *testing.T) {
		rec := get(router, "/api/v1/listings/77")
		require.Equal(t, http.StatusNotFound, rec.Code)
		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, uint32(201), body.Code)
	})

	t.Run("Quote", func(t *testing.T) {
		rec := get(router, "/api/v1/listings/1/quote?duration=200")
		require.Equal(t, http.StatusOK, rec.Code)
		var q domain.RentalQuote
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
		assert.Equal(t, uint64(24000), q.TotalPayment)

		rec = get(router, "/api/v1/listings/1/quote")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Expired rentals", func(t *testing.T) {
		rec := get(router, "/api/v1/rentals/expired")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())

		blocks.Set(210)
		rec = get(router, "/api/v1/listings/1/rental")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"expired":true`)
	})

	t.Run("User stats", func(t *testing.T) {
		rec := get(router, "/api/v1/users/bob/stats")
		require.Equal(t, http.StatusOK, rec.Code)
		var s domain.UserStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		assert.Equal(t, uint64(20000), s.TotalSpent)

		rec = get(router, "/api/v1/users/nobody/stats")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Platform stats", func(t *testing.T) {
		rec := get(router, "/api/v1/platform/stats")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"total_listings":1,"total_rentals":1,"platform_revenue":1000,"platform_fee_rate":500}`, rec.Body.String())
	})

	t.Run("Health and metrics", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(router, "/health").Code)
		rec := get(router, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "rental_market_transitions_total")
	})
}
