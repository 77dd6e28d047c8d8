package grpc

import "rental-escrow-backend/internal/domain"

type ListForRentalRequest struct {
	AssetContract string `json:"asset_contract"`
	TokenID       uint64 `json:"token_id"`
	PricePerBlock uint64 `json:"price_per_block"`
	MinDuration   uint64 `json:"min_duration"`
	MaxDuration   uint64 `json:"max_duration"`
}

type ListForRentalResponse struct {
	ListingID uint64 `json:"listing_id"`
}

type UpdateRentalPriceRequest struct {
	ListingID uint64 `json:"listing_id"`
	NewPrice  uint64 `json:"new_price"`
}

type ListingIDRequest struct {
	ListingID uint64 `json:"listing_id"`
}

type GetListingByAssetRequest struct {
	AssetContract string `json:"asset_contract"`
	TokenID       uint64 `json:"token_id"`
}

type ListingResponse struct {
	Listing *domain.Listing `json:"listing"`
}

type CountResponse struct {
	Count uint64 `json:"count"`
}

type RentNFTRequest struct {
	ListingID uint64 `json:"listing_id"`
	Duration  uint64 `json:"duration"`
}

type RentNFTResponse struct {
	Receipt *domain.RentReceipt `json:"receipt"`
}

type ResolveDisputeRequest struct {
	ListingID      uint64 `json:"listing_id"`
	ReturnToRenter bool   `json:"return_to_renter"`
}

type ActiveRentalResponse struct {
	Rental *domain.ActiveRental `json:"rental"`
}

type RentalQuoteRequest struct {
	ListingID uint64 `json:"listing_id"`
	Duration  uint64 `json:"duration"`
}

type RentalQuoteResponse struct {
	Quote *domain.RentalQuote `json:"quote"`
}

type IsRentalExpiredResponse struct {
	Expired bool `json:"expired"`
}

type ListExpiredRentalsResponse struct {
	Rentals []domain.ActiveRental `json:"rentals"`
}

type UserRequest struct {
	User string `json:"user"`
}

type RentalHistoryResponse struct {
	Records []domain.HistoryRecord `json:"records"`
}

type UserStatsResponse struct {
	Stats *domain.UserStats `json:"stats"`
}

type SetPlatformFeeRateRequest struct {
	Rate uint64 `json:"rate"`
}

type SetDurationLimitsRequest struct {
	MinDuration uint64 `json:"min_duration"`
	MaxDuration uint64 `json:"max_duration"`
}

type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

type FundAccountRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type PlatformStatsResponse struct {
	Stats  *domain.PlatformStats  `json:"stats"`
	Params *domain.PlatformParams `json:"params"`
}

// BalanceRequest leaves Account empty to query the caller's own balance.
type BalanceRequest struct {
	Account string `json:"account,omitempty"`
}

type BalanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

type LedgerEntriesRequest struct {
	Account string `json:"account,omitempty"`
	Limit   int    `json:"limit"`
}

type LedgerEntriesResponse struct {
	Entries []domain.LedgerEntry `json:"entries"`
}

type Empty struct{}
