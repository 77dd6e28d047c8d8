package utils

import (
	"github.com/holiman/uint256"

	"rental-escrow-backend/internal/domain"
)

const (
	// BasisPoints is the denominator for all rate arithmetic (10000 bps = 100%).
	BasisPoints uint64 = 10000
	// CollateralRateBps is the fixed collateral share of the rental cost.
	CollateralRateBps uint64 = 2000
)

// mulDiv returns floor(a*b/d). The product is taken in 256 bits so it cannot wrap;
// the quotient must fit back into 64 bits.
func mulDiv(a, b, d uint64) (uint64, error) {
	prod, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(a), uint256.NewInt(b))
	if overflow {
		return 0, domain.Errorf(domain.CodeInvalidAmount, "arithmetic overflow")
	}
	q := new(uint256.Int).Div(prod, uint256.NewInt(d))
	if !q.IsUint64() {
		return 0, domain.Errorf(domain.CodeInvalidAmount, "amount exceeds 64 bits")
	}
	return q.Uint64(), nil
}

// RentalCost is price_per_block * duration.
func RentalCost(pricePerBlock, duration uint64) (uint64, error) {
	cost, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(pricePerBlock), uint256.NewInt(duration))
	if overflow || !cost.IsUint64() {
		return 0, domain.Errorf(domain.CodeInvalidAmount, "rental cost overflows: %d * %d", pricePerBlock, duration)
	}
	return cost.Uint64(), nil
}

// Collateral is the fixed 20% share of the cost, truncated.
func Collateral(cost uint64) uint64 {
	c, _ := mulDiv(cost, CollateralRateBps, BasisPoints) // cannot exceed cost
	return c
}

// PlatformFee is floor(cost * rate / 10000).
func PlatformFee(cost, feeRateBps uint64) (uint64, error) {
	if feeRateBps > BasisPoints {
		return 0, domain.Errorf(domain.CodeInvalidAmount, "fee rate %d exceeds %d bps", feeRateBps, BasisPoints)
	}
	return mulDiv(cost, feeRateBps, BasisPoints)
}

// OwnerPayment is what the owner receives once the platform fee is taken out.
func OwnerPayment(cost, platformFee uint64) (uint64, error) {
	if platformFee > cost {
		return 0, domain.Errorf(domain.CodeInvalidAmount, "fee %d exceeds cost %d", platformFee, cost)
	}
	return cost - platformFee, nil
}

// TotalPayment is what the renter prepays: cost plus collateral.
func TotalPayment(cost, collateral uint64) (uint64, error) {
	total, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(cost), uint256.NewInt(collateral))
	if overflow || !total.IsUint64() {
		return 0, domain.Errorf(domain.CodeInvalidAmount, "total payment overflows")
	}
	return total.Uint64(), nil
}

// CalculateRentalQuote derives the full payment breakdown for a rental.
// OwnerPayment + PlatformFee always equals RentalCost.
func CalculateRentalQuote(pricePerBlock, duration, feeRateBps uint64) (*domain.RentalQuote, error) {
	cost, err := RentalCost(pricePerBlock, duration)
	if err != nil {
		return nil, err
	}
	collateral := Collateral(cost)
	fee, err := PlatformFee(cost, feeRateBps)
	if err != nil {
		return nil, err
	}
	ownerPayment, err := OwnerPayment(cost, fee)
	if err != nil {
		return nil, err
	}
	total, err := TotalPayment(cost, collateral)
	if err != nil {
		return nil, err
	}
	return &domain.RentalQuote{
		RentalCost:         cost,
		CollateralRequired: collateral,
		PlatformFee:        fee,
		OwnerPayment:       ownerPayment,
		TotalPayment:       total,
	}, nil
}

// CheckedAdd returns a+b, failing with InvalidAmount instead of wrapping.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(a), uint256.NewInt(b))
	if overflow || !sum.IsUint64() {
		return 0, domain.Errorf(domain.CodeInvalidAmount, "amount overflows: %d + %d", a, b)
	}
	return sum.Uint64(), nil
}
