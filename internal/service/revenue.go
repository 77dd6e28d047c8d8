package service

import (
	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/utils"
)

// RevenueAccumulator tracks platform fees held in custody and not yet withdrawn.
// It works on the platform state loaded by the enclosing unit of work.
type RevenueAccumulator struct{}

func (RevenueAccumulator) Accrue(p *domain.PlatformState, fee uint64) error {
	total, err := utils.CheckedAdd(p.TotalRevenue, fee)
	if err != nil {
		return err
	}
	p.TotalRevenue = total
	return nil
}

// Deduct removes amount from the accumulator. Zero or more than accrued is InvalidAmount.
func (RevenueAccumulator) Deduct(p *domain.PlatformState, amount uint64) error {
	if amount == 0 || amount > p.TotalRevenue {
		return domain.Errorf(domain.CodeInvalidAmount, "withdrawal %d exceeds revenue %d", amount, p.TotalRevenue)
	}
	p.TotalRevenue -= amount
	return nil
}
