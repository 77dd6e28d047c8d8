package domain

// AssetID identifies an external asset (contract + token) that a listing offers for rent.
type AssetID struct {
	Contract string `json:"asset_contract"`
	TokenID  uint64 `json:"token_id"`
}

type Listing struct {
	ID            uint64 `json:"listing_id"`
	AssetContract string `json:"asset_contract"`
	TokenID       uint64 `json:"token_id"`
	Owner         string `json:"owner"`
	PricePerBlock uint64 `json:"price_per_block"`
	MinDuration   uint64 `json:"min_duration"`
	MaxDuration   uint64 `json:"max_duration"`
	Available     bool   `json:"available"`
	TotalEarned   uint64 `json:"total_earned"`
	RentalCount   uint64 `json:"rental_count"`
	CreatedAt     uint64 `json:"created_at"` // block height
}

// Asset returns the asset identity referenced by the listing.
func (l *Listing) Asset() AssetID {
	return AssetID{Contract: l.AssetContract, TokenID: l.TokenID}
}
