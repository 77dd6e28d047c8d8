package grpc

import (
	"context"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/service"
)

type ListingHandler struct {
	listingSvc service.ListingService
}

func NewListingHandler(listingSvc service.ListingService) *ListingHandler {
	return &ListingHandler{listingSvc: listingSvc}
}

func (h *ListingHandler) ListForRental(ctx context.Context, req *ListForRentalRequest) (*ListForRentalResponse, error) {
	owner, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	asset := domain.AssetID{Contract: req.AssetContract, TokenID: req.TokenID}
	id, err := h.listingSvc.ListForRental(ctx, owner, asset, req.PricePerBlock, req.MinDuration, req.MaxDuration)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &ListForRentalResponse{ListingID: id}, nil
}

func (h *ListingHandler) UpdateRentalPrice(ctx context.Context, req *UpdateRentalPriceRequest) (*Empty, error) {
	caller, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.listingSvc.UpdateRentalPrice(ctx, caller, req.ListingID, req.NewPrice); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (h *ListingHandler) RemoveListing(ctx context.Context, req *ListingIDRequest) (*Empty, error) {
	caller, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.listingSvc.RemoveListing(ctx, caller, req.ListingID); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (h *ListingHandler) GetListing(ctx context.Context, req *ListingIDRequest) (*ListingResponse, error) {
	l, err := h.listingSvc.GetListing(ctx, req.ListingID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &ListingResponse{Listing: l}, nil
}

func (h *ListingHandler) GetListingByAsset(ctx context.Context, req *GetListingByAssetRequest) (*ListingResponse, error) {
	l, err := h.listingSvc.GetListingByAsset(ctx, domain.AssetID{Contract: req.AssetContract, TokenID: req.TokenID})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &ListingResponse{Listing: l}, nil
}

func (h *ListingHandler) GetTotalListings(ctx context.Context, _ *Empty) (*CountResponse, error) {
	n, err := h.listingSvc.GetTotalListings(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &CountResponse{Count: n}, nil
}
