package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"rental-escrow-backend/internal/domain"
)

// RemoteExpiryService drives expiry sweeps against a running market server. Calls are
// authenticated with a service token, so the acting principal is the token's, not the
// caller argument.
type RemoteExpiryService struct {
	client *RentalMarketClient
	token  string
}

func NewRemoteExpiryService(client *RentalMarketClient, token string) *RemoteExpiryService {
	return &RemoteExpiryService{client: client, token: token}
}

func (r *RemoteExpiryService) authed(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+r.token)
}

func (r *RemoteExpiryService) ListExpiredRentals(ctx context.Context) ([]domain.ActiveRental, error) {
	resp, err := r.client.ListExpiredRentals(r.authed(ctx))
	if err != nil {
		return nil, err
	}
	return resp.Rentals, nil
}

func (r *RemoteExpiryService) AutoReturnExpired(ctx context.Context, _ string, listingID uint64) error {
	var trailer metadata.MD
	err := r.client.AutoReturnExpired(r.authed(ctx), listingID, grpc.Trailer(&trailer))
	return fromTrailer(err, trailer)
}
