package domain

type TransferType string

const (
	TransferTypeRentPayment      TransferType = "RENT_PAYMENT"
	TransferTypeOwnerPayout      TransferType = "OWNER_PAYOUT"
	TransferTypeCollateralRefund TransferType = "COLLATERAL_REFUND"
	TransferTypeCollateralClaim  TransferType = "COLLATERAL_CLAIM"
	TransferTypeFeeWithdrawal    TransferType = "FEE_WITHDRAWAL"
	TransferTypeFunding          TransferType = "FUNDING"
)

// LedgerEntry records one value movement between two accounts. From is empty for
// inflows from outside the system.
type LedgerEntry struct {
	ID          uint64       `json:"id"`
	From        string       `json:"from,omitempty"`
	To          string       `json:"to"`
	Amount      uint64       `json:"amount"`
	Type        TransferType `json:"type"`
	ListingID   uint64       `json:"listing_id,omitempty"`
	RentalID    uint64       `json:"rental_id,omitempty"`
	BlockHeight uint64       `json:"block_height"`
}
