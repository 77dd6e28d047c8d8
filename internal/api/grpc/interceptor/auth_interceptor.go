package interceptor

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"rental-escrow-backend/internal/config"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/security"
)

const (
	PrincipalHeader = "principal"
	RequestIDHeader = "x-request-id"
)

type AuthInterceptor struct {
	tokenManager security.TokenManager
}

func NewAuthInterceptor(tm security.TokenManager) *AuthInterceptor {
	return &AuthInterceptor{tokenManager: tm}
}

// Unary returns a server interceptor function to authenticate unary RPCs. The
// authenticated principal replaces any client-supplied principal header.
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			md = metadata.New(nil)
		} else {
			md = md.Copy()
		}
		// never trust a principal the client sent itself
		md.Delete(PrincipalHeader)

		requestID := firstValue(md, RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			md.Set(RequestIDHeader, requestID)
		}

		level := config.GetSecurityLevel(info.FullMethod)
		if level == config.SecurityPublic {
			logger.Debug("Public RPC", "method", info.FullMethod, "request_id", requestID)
			return handler(metadata.NewIncomingContext(ctx, md), req)
		}

		token, err := i.extractToken(md)
		if err != nil {
			return nil, err
		}

		claims, err := i.tokenManager.ValidateToken(token)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
		}
		if err := i.checkSecurityLevel(level, claims); err != nil {
			return nil, err
		}

		md.Set(PrincipalHeader, claims.Principal)
		logger.Debug("Authenticated RPC", "method", info.FullMethod, "principal", claims.Principal, "request_id", requestID)
		return handler(metadata.NewIncomingContext(ctx, md), req)
	}
}

func firstValue(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (i *AuthInterceptor) extractToken(md metadata.MD) (string, error) {
	authHeader := md.Get("authorization")
	if len(authHeader) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization token is not provided")
	}

	token := authHeader[0]
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}

	return token, nil
}

func (i *AuthInterceptor) checkSecurityLevel(level config.SecurityLevel, claims *security.PrincipalClaims) error {
	switch level {
	case config.SecurityAccess:
		if claims.Type != security.TokenTypeAccess && claims.Type != security.TokenTypeService {
			return status.Error(codes.PermissionDenied, security.ErrWrongTokenType.Error())
		}
	}
	return nil
}
