package domain

// ActiveRental is the live rental record of a listing. At most one exists per listing,
// and it exists exactly while the listing is not available.
type ActiveRental struct {
	ListingID        uint64 `json:"listing_id"`
	RentalID         uint64 `json:"rental_id"`
	Renter           string `json:"renter"`
	StartBlock       uint64 `json:"start_block"`
	EndBlock         uint64 `json:"end_block"`
	TotalPaid        uint64 `json:"total_paid"`
	CollateralAmount uint64 `json:"collateral_amount"`
}

// Expired reports whether the rental period has elapsed at the given height.
func (r *ActiveRental) Expired(height uint64) bool {
	return height >= r.EndBlock
}

// RentalQuote is the price breakdown for renting a listing for a duration.
type RentalQuote struct {
	RentalCost         uint64 `json:"rental_cost"`
	CollateralRequired uint64 `json:"collateral_required"`
	PlatformFee        uint64 `json:"platform_fee"`
	OwnerPayment       uint64 `json:"owner_payment"`
	TotalPayment       uint64 `json:"total_payment"`
}

// RentReceipt is returned to the renter when a rental starts.
type RentReceipt struct {
	RentalID   uint64 `json:"rental_id"`
	EndBlock   uint64 `json:"end_block"`
	Collateral uint64 `json:"collateral"`
}

type HistoryAction string

const (
	HistoryActionRented   HistoryAction = "rented"
	HistoryActionReturned HistoryAction = "returned"
)

// HistoryRecord is an append-only entry in a user's rental log.
type HistoryRecord struct {
	User        string        `json:"user"`
	RentalID    uint64        `json:"rental_id"`
	ListingID   uint64        `json:"listing_id"`
	Action      HistoryAction `json:"action"`
	BlockHeight uint64        `json:"block_height"`
	Amount      uint64        `json:"amount"`
}
