package domain

const (
	DefaultPlatformFeeRate   uint64 = 500   // 5%
	MaxPlatformFeeRate       uint64 = 2000  // 20%
	DefaultMinRentalDuration uint64 = 144   // ~1 day of blocks
	DefaultMaxRentalDuration uint64 = 52560 // ~1 year of blocks
)

// PlatformParams are the admin-controlled policy values.
type PlatformParams struct {
	FeeRateBps        uint64 `json:"platform_fee_rate"`
	MinRentalDuration uint64 `json:"min_rental_duration"`
	MaxRentalDuration uint64 `json:"max_rental_duration"`
}

func DefaultPlatformParams() PlatformParams {
	return PlatformParams{
		FeeRateBps:        DefaultPlatformFeeRate,
		MinRentalDuration: DefaultMinRentalDuration,
		MaxRentalDuration: DefaultMaxRentalDuration,
	}
}

// PlatformState holds the process-wide scalars: policy, id counters and undistributed revenue.
// Counters hold the next id to hand out and never decrease.
type PlatformState struct {
	Params        PlatformParams `json:"params"`
	NextListingID uint64         `json:"next_listing_id"`
	NextRentalID  uint64         `json:"next_rental_id"`
	TotalRevenue  uint64         `json:"total_platform_revenue"`
}

func NewPlatformState(params PlatformParams) *PlatformState {
	return &PlatformState{Params: params, NextListingID: 1, NextRentalID: 1}
}

// AllocateListingID hands out the next listing id and advances the counter.
func (s *PlatformState) AllocateListingID() uint64 {
	id := s.NextListingID
	s.NextListingID++
	return id
}

// AllocateRentalID hands out the next rental id and advances the counter.
func (s *PlatformState) AllocateRentalID() uint64 {
	id := s.NextRentalID
	s.NextRentalID++
	return id
}

type PlatformStats struct {
	TotalListings   uint64 `json:"total_listings"`
	TotalRentals    uint64 `json:"total_rentals"`
	PlatformRevenue uint64 `json:"platform_revenue"`
	PlatformFeeRate uint64 `json:"platform_fee_rate"`
}
