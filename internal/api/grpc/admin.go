package grpc

import (
	"context"

	"rental-escrow-backend/internal/service"
)

type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

func (h *AdminHandler) SetPlatformFeeRate(ctx context.Context, req *SetPlatformFeeRateRequest) (*Empty, error) {
	caller, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.adminSvc.SetPlatformFeeRate(ctx, caller, req.Rate); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (h *AdminHandler) SetDurationLimits(ctx context.Context, req *SetDurationLimitsRequest) (*Empty, error) {
	caller, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.adminSvc.SetDurationLimits(ctx, caller, req.MinDuration, req.MaxDuration); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (h *AdminHandler) WithdrawPlatformFees(ctx context.Context, req *AmountRequest) (*Empty, error) {
	caller, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.adminSvc.WithdrawPlatformFees(ctx, caller, req.Amount); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (h *AdminHandler) FundAccount(ctx context.Context, req *FundAccountRequest) (*Empty, error) {
	caller, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.adminSvc.FundAccount(ctx, caller, req.Account, req.Amount); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (h *AdminHandler) GetPlatformStats(ctx context.Context, _ *Empty) (*PlatformStatsResponse, error) {
	stats, err := h.adminSvc.GetPlatformStats(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	params, err := h.adminSvc.GetPlatformParams(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &PlatformStatsResponse{Stats: stats, Params: params}, nil
}
