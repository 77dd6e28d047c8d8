package service

import (
	"context"
	"fmt"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/repository"
	"rental-escrow-backend/internal/utils"
)

// transferRef ties a value movement to the rental event that caused it.
type transferRef struct {
	Type      domain.TransferType
	ListingID uint64
	RentalID  uint64
	Height    uint64
}

// EscrowLedger is the only component that moves value. Custody is a reserved
// account holding everything collected but not yet paid out: live collateral plus
// undistributed platform fees. It never pays or receives as a market party. All methods run inside the caller's unit of work, so a
// failure anywhere in the operation discards every movement made before it.
type EscrowLedger struct {
	custody string
}

func NewEscrowLedger(custodyAccount string) *EscrowLedger {
	return &EscrowLedger{custody: custodyAccount}
}

func (l *EscrowLedger) Custody() string {
	return l.custody
}

// Collect moves amount from the payer into custody, failing with InsufficientPayment
// when the payer cannot cover it. Custody never pays itself: its balance belongs to
// other parties.
func (l *EscrowLedger) Collect(ctx context.Context, r *repository.Repositories, from string, amount uint64, ref transferRef) error {
	if from == l.custody {
		return domain.Errorf(domain.CodeUnauthorized, "custody account cannot pay into custody")
	}
	balance, err := r.Ledger.GetBalance(ctx, from)
	if err != nil {
		return fmt.Errorf("failed to read balance of %s: %w", from, err)
	}
	if balance < amount {
		return domain.Errorf(domain.CodeInsufficientPayment, "%s holds %d, needs %d", from, balance, amount)
	}
	return l.move(ctx, r, from, l.custody, amount, ref)
}

// Pay moves amount out of custody to the recipient.
func (l *EscrowLedger) Pay(ctx context.Context, r *repository.Repositories, to string, amount uint64, ref transferRef) error {
	if to == l.custody {
		return domain.Errorf(domain.CodeUnauthorized, "custody account cannot receive a payout")
	}
	balance, err := r.Ledger.GetBalance(ctx, l.custody)
	if err != nil {
		return fmt.Errorf("failed to read custody balance: %w", err)
	}
	if balance < amount {
		return domain.Errorf(domain.CodeTransferFailed, "custody holds %d, payout needs %d", balance, amount)
	}
	return l.move(ctx, r, l.custody, to, amount, ref)
}

// Fund credits an account with value entering from outside the system.
func (l *EscrowLedger) Fund(ctx context.Context, r *repository.Repositories, to string, amount uint64, height uint64) error {
	if err := l.credit(ctx, r, to, amount); err != nil {
		return err
	}
	return r.Ledger.AppendEntry(ctx, &domain.LedgerEntry{To: to, Amount: amount, Type: domain.TransferTypeFunding, BlockHeight: height})
}

func (l *EscrowLedger) move(ctx context.Context, r *repository.Repositories, from, to string, amount uint64, ref transferRef) error {
	if amount == 0 {
		return nil
	}
	balance, err := r.Ledger.GetBalance(ctx, from)
	if err != nil {
		return err
	}
	if err := r.Ledger.SetBalance(ctx, from, balance-amount); err != nil {
		return err
	}
	if err := l.credit(ctx, r, to, amount); err != nil {
		return err
	}
	return r.Ledger.AppendEntry(ctx, &domain.LedgerEntry{
		From:        from,
		To:          to,
		Amount:      amount,
		Type:        ref.Type,
		ListingID:   ref.ListingID,
		RentalID:    ref.RentalID,
		BlockHeight: ref.Height,
	})
}

func (l *EscrowLedger) credit(ctx context.Context, r *repository.Repositories, to string, amount uint64) error {
	balance, err := r.Ledger.GetBalance(ctx, to)
	if err != nil {
		return err
	}
	next, err := utils.CheckedAdd(balance, amount)
	if err != nil {
		return domain.Errorf(domain.CodeTransferFailed, "balance of %s would overflow", to)
	}
	return r.Ledger.SetBalance(ctx, to, next)
}
