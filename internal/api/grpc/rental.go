package grpc

import (
	"context"

	"rental-escrow-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) RentNFT(ctx context.Context, req *RentNFTRequest) (*RentNFTResponse, error) {
	renter, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := h.rentalSvc.RentNFT(ctx, renter, req.ListingID, req.Duration)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &RentNFTResponse{Receipt: receipt}, nil
}

func (h *RentalHandler) ReturnNFT(ctx context.Context, req *ListingIDRequest) (*Empty, error) {
	caller, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.rentalSvc.ReturnNFT(ctx, caller, req.ListingID); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (h *RentalHandler) AutoReturnExpired(ctx context.Context, req *ListingIDRequest) (*Empty, error) {
	caller, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.rentalSvc.AutoReturnExpired(ctx, caller, req.ListingID); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (h *RentalHandler) ResolveDispute(ctx context.Context, req *ResolveDisputeRequest) (*Empty, error) {
	caller, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.rentalSvc.ResolveDispute(ctx, caller, req.ListingID, req.ReturnToRenter); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (h *RentalHandler) GetActiveRental(ctx context.Context, req *ListingIDRequest) (*ActiveRentalResponse, error) {
	rt, err := h.rentalSvc.GetActiveRental(ctx, req.ListingID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &ActiveRentalResponse{Rental: rt}, nil
}

func (h *RentalHandler) GetRentalQuote(ctx context.Context, req *RentalQuoteRequest) (*RentalQuoteResponse, error) {
	q, err := h.rentalSvc.GetRentalQuote(ctx, req.ListingID, req.Duration)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &RentalQuoteResponse{Quote: q}, nil
}

func (h *RentalHandler) IsRentalExpired(ctx context.Context, req *ListingIDRequest) (*IsRentalExpiredResponse, error) {
	expired, err := h.rentalSvc.IsRentalExpired(ctx, req.ListingID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &IsRentalExpiredResponse{Expired: expired}, nil
}

func (h *RentalHandler) ListExpiredRentals(ctx context.Context, _ *Empty) (*ListExpiredRentalsResponse, error) {
	rentals, err := h.rentalSvc.ListExpiredRentals(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &ListExpiredRentalsResponse{Rentals: rentals}, nil
}

func (h *RentalHandler) GetRentalHistory(ctx context.Context, req *UserRequest) (*RentalHistoryResponse, error) {
	records, err := h.rentalSvc.GetRentalHistory(ctx, req.User)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &RentalHistoryResponse{Records: records}, nil
}
