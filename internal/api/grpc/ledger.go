package grpc

import (
	"context"

	"rental-escrow-backend/internal/service"
)

type LedgerHandler struct {
	ledgerSvc service.LedgerService
}

func NewLedgerHandler(ledgerSvc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// account resolves the queried account, defaulting to the caller.
func account(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	return GetPrincipalFromContext(ctx)
}

func (h *LedgerHandler) GetBalance(ctx context.Context, req *BalanceRequest) (*BalanceResponse, error) {
	acct, err := account(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	balance, err := h.ledgerSvc.GetBalance(ctx, acct)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &BalanceResponse{Account: acct, Balance: balance}, nil
}

func (h *LedgerHandler) GetLedgerEntries(ctx context.Context, req *LedgerEntriesRequest) (*LedgerEntriesResponse, error) {
	acct, err := account(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	entries, err := h.ledgerSvc.GetEntries(ctx, acct, req.Limit)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &LedgerEntriesResponse{Entries: entries}, nil
}

func (h *LedgerHandler) GetUserStats(ctx context.Context, req *UserRequest) (*UserStatsResponse, error) {
	stats, err := h.ledgerSvc.GetUserStats(ctx, req.User)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &UserStatsResponse{Stats: stats}, nil
}
