package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkwell-cms/inkwell/internal/authz"
	"github.com/inkwell-cms/inkwell/internal/shared"
)

// Claims is the only claim shape this service signs. Claims are built field
// by field from the principal's identity; a user record is never embedded
// wholesale, so credential-bearing fields cannot leak into a token.
type Claims struct {
	jwt.RegisteredClaims

	Role string `json:"role,omitempty"`
}

// TokenService issues and validates signed bearer tokens. The signing secret
// is loaded once at process start and is immutable for the process lifetime.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

// NewTokenService constructs a TokenService.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

func (s *TokenService) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue signs identity claims for the principal. The role is captured at
// issuance time for observability only; authorization always re-reads the
// role from storage.
func (s *TokenService) Issue(principal authz.Principal) (string, error) {
	if principal.ID == "" {
		return "", fmt.Errorf("%w: principal id required", shared.ErrInvalidInput)
	}
	now := s.clock()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: string(principal.Role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and expiry of a bearer token and returns the
// principal it asserts. Every failure maps to ErrUnauthenticated.
func (s *TokenService) Validate(raw string) (authz.Principal, error) {
	if raw == "" {
		return authz.Principal{}, shared.ErrUnauthenticated
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(func() time.Time { return s.clock() }),
	)
	if err != nil {
		return authz.Principal{}, fmt.Errorf("%w: %v", shared.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return authz.Principal{}, fmt.Errorf("%w: token missing subject", shared.ErrUnauthenticated)
	}
	principal := authz.Principal{ID: claims.Subject}
	if role, err := authz.ParseRole(claims.Role); err == nil {
		principal.Role = role
	}
	return principal, nil
}
