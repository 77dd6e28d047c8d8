package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"rental-escrow-backend/internal/config"
	"rental-escrow-backend/internal/security"
)

const secret = "0123456789abcdef0123456789abcdef"

// capture records the metadata the handler was invoked with.
func capture(seen *metadata.MD) grpc.UnaryHandler {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		*seen = md
		return "ok", nil
	}
}

func TestAuthInterceptor_Unary(t *testing.T) {
	tm := security.NewTokenManager(secret, time.Hour)
	unary := NewAuthInterceptor(tm).Unary()
	protected := &grpc.UnaryServerInfo{FullMethod: config.RentalMarketService + "RentNFT"}
	public := &grpc.UnaryServerInfo{FullMethod: config.RentalMarketService + "GetListing"}

	t.Run("Public method skips auth", func(t *testing.T) {
		var seen metadata.MD
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(PrincipalHeader, "spoofed"))
		resp, err := unary(ctx, nil, public, capture(&seen))
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Empty(t, seen.Get(PrincipalHeader))
		assert.NotEmpty(t, seen.Get(RequestIDHeader))
	})

	t.Run("Missing token", func(t *testing.T) {
		var seen metadata.MD
		_, err := unary(context.Background(), nil, protected, capture(&seen))
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("Invalid token", func(t *testing.T) {
		var seen metadata.MD
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope"))
		_, err := unary(ctx, nil, protected, capture(&seen))
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("Principal injected from token", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("bob")
		require.NoError(t, err)
		var seen metadata.MD
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
			"authorization", "Bearer "+token,
			PrincipalHeader, "alice",
			RequestIDHeader, "req-1",
		))
		_, err = unary(ctx, nil, protected, capture(&seen))
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, seen.Get(PrincipalHeader))
		assert.Equal(t, []string{"req-1"}, seen.Get(RequestIDHeader))
	})

	t.Run("Service token accepted", func(t *testing.T) {
		token, err := tm.GenerateServiceToken("sweeper")
		require.NoError(t, err)
		var seen metadata.MD
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", token))
		_, err = unary(ctx, nil, &grpc.UnaryServerInfo{FullMethod: config.RentalMarketService + "AutoReturnExpired"}, capture(&seen))
		require.NoError(t, err)
		assert.Equal(t, []string{"sweeper"}, seen.Get(PrincipalHeader))
	})
}
