// Package auth issues and verifies the signed session tokens handed out at
// login.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/bookshelf/catalog-api/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired   = apperrors.NewAppError(apperrors.CodeUnauthenticated, "Token has expired", nil)
	ErrTokenMalformed = apperrors.NewAppError(apperrors.CodeUnauthenticated, "Token is malformed", nil)
	ErrBadSignature   = apperrors.NewAppError(apperrors.CodeUnauthenticated, "Token signature is invalid", nil)
)

// Claims carries the session identity alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// TokenService signs and verifies HS256 session tokens with one key.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option configures a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now, mainly so tests can move time forward.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

// WithIssuer sets the iss claim written and required on every token.
func WithIssuer(issuer string) Option {
	return func(s *TokenService) {
		s.issuer = issuer
	}
}

// NewTokenService creates a token service. The key must not be empty.
func NewTokenService(key []byte, ttl time.Duration, opts ...Option) (*TokenService, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("token signing key is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	s := &TokenService{
		key: key,
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for username that expires TTL after now.
func (s *TokenService) Issue(username string) (string, time.Time, error) {
	if username == "" {
		return "", time.Time{}, fmt.Errorf("cannot issue token without username")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded username.
func (s *TokenService) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, opts...)
	if err != nil {
		return "", classify(tokenString, err)
	}

	if !token.Valid || claims.Username == "" {
		return "", ErrTokenMalformed
	}

	return claims.Username, nil
}

func classify(tokenString string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), signatureUndecodable(tokenString):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

// signatureUndecodable reports whether tokenString has a well-formed header
// and payload but a signature segment that is not base64url.
func signatureUndecodable(tokenString string) bool {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts[:2] {
		decoded, err := base64.RawURLEncoding.DecodeString(part)
		if err != nil || !json.Valid(decoded) {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err != nil
}
