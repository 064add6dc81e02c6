package users

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/bookshelf/catalog-api/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into its stored form and checks a
// candidate password against that form.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns (true, nil) on match, (false, nil) on mismatch and an
	// error only when the stored value is unusable.
	Compare(stored, password string) (bool, error)
}

// PlaintextHasher stores passwords as given and compares them for equality.
type PlaintextHasher struct{}

func (PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlaintextHasher) Compare(stored, password string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1, nil
}

// BcryptHasher stores bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h BcryptHasher) Compare(stored, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to compare password: %w", err)
	}
}

// NewHasher picks the hasher named in configuration.
func NewHasher(cfg *config.AuthConfig) (PasswordHasher, error) {
	switch cfg.PasswordHasher {
	case config.HasherBcrypt:
		return BcryptHasher{Cost: cfg.BcryptCost}, nil
	case config.HasherPlaintext:
		return PlaintextHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher: %s", cfg.PasswordHasher)
	}
}
