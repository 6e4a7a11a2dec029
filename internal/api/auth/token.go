// Package auth verifies identity tokens and gates routes by role.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims the service issues and accepts
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 identity tokens
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. An empty issuer disables the issuer check.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed token for subject holding role
func (s *TokenService) Issue(subject string, role domain.Role) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the token's signature, expiry and issuer and returns the
// principal it names. Every failure wraps domain.ErrUnauthenticated.
func (s *TokenService) Verify(tokenString string) (*domain.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	switch claims.Role {
	case domain.RoleAdmin, domain.RoleUser:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrUnauthenticated, claims.Role)
	}

	return &domain.Principal{ID: claims.Subject, Role: claims.Role}, nil
}
