package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
	// TokenTypeService is issued to in-cluster jobs such as the expiry sweeper.
	TokenTypeService TokenType = "service"
)

const issuer = "rental-market"

// PrincipalClaims carries the market identity the token was issued to. Principal is
// the account name used by listings, rentals and the ledger.
type PrincipalClaims struct {
	Principal string    `json:"principal"`
	Type      TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAccessToken(principal string) (string, error)
	GenerateServiceToken(principal string) (string, error)
	ValidateToken(tokenString string) (*PrincipalClaims, error)
}

type tokenManager struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

func NewTokenManager(secret string, accessTTL time.Duration) TokenManager {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &tokenManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

func (m *tokenManager) GenerateAccessToken(principal string) (string, error) {
	return m.sign(principal, TokenTypeAccess, m.accessTTL, "api-access")
}

// GenerateServiceToken issues a long-lived token for background jobs.
func (m *tokenManager) GenerateServiceToken(principal string) (string, error) {
	return m.sign(principal, TokenTypeService, 24*time.Hour, "api-service")
}

func (m *tokenManager) sign(principal string, typ TokenType, ttl time.Duration, audience string) (string, error) {
	if principal == "" {
		return "", errors.New("principal is required")
	}
	now := m.now()
	claims := PrincipalClaims{
		Principal: principal,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*PrincipalClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PrincipalClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*PrincipalClaims); ok && token.Valid {
		if claims.Principal == "" {
			claims.Principal = claims.Subject
		}
		if claims.Principal == "" {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
