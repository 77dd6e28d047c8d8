package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"rental-escrow-backend/internal/api/grpc/interceptor"
)

// PrincipalHeader is set by the auth interceptor from the validated token.
const PrincipalHeader = interceptor.PrincipalHeader

// GetPrincipalFromContext extracts the authenticated caller from the gRPC metadata.
func GetPrincipalFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	principals := md.Get(PrincipalHeader)
	if len(principals) == 0 || principals[0] == "" {
		return "", status.Errorf(codes.Unauthenticated, "principal is not provided in metadata")
	}
	return principals[0], nil
}
