// Package users holds registered accounts and checks their credentials.
package users

import (
	"fmt"
	"sync"

	"github.com/bookshelf/catalog-api/internal/models"
	apperrors "github.com/bookshelf/catalog-api/pkg/errors"
)

var (
	ErrInvalidInput       = apperrors.NewAppError(apperrors.CodeInvalidInput, "Username and password are required.", nil)
	ErrAlreadyExists      = apperrors.NewAppError(apperrors.CodeAlreadyExists, "Username already exists.", nil)
	ErrNotFound           = apperrors.NewAppError(apperrors.CodeNotFound, "User not found.", nil)
	ErrInvalidCredentials = apperrors.NewAppError(apperrors.CodeInvalidCredentials, "Invalid password.", nil)
)

// Store registers users and verifies their passwords.
type Store interface {
	Register(username, password string) error
	Verify(username, password string) error
}

// MemoryStore keeps users for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]models.User
	hasher PasswordHasher
}

// NewMemoryStore creates an empty store using hasher for stored passwords.
func NewMemoryStore(hasher PasswordHasher) *MemoryStore {
	if hasher == nil {
		hasher = PlaintextHasher{}
	}
	return &MemoryStore{
		users:  make(map[string]models.User),
		hasher: hasher,
	}
}

// Register adds a new user. Usernames are case-sensitive.
func (s *MemoryStore) Register(username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidInput
	}

	// Hash outside the lock; bcrypt is slow.
	stored, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.WrapError(err, "Failed to process password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrAlreadyExists
	}
	s.users[username] = models.User{Username: username, Password: stored}
	return nil
}

// Verify checks password against the stored credential for username.
func (s *MemoryStore) Verify(username, password string) error {
	s.mu.RLock()
	user, exists := s.users[username]
	s.mu.RUnlock()

	if !exists {
		return ErrNotFound
	}

	ok, err := s.hasher.Compare(user.Password, password)
	if err != nil {
		return apperrors.WrapError(fmt.Errorf("user %s: %w", username, err), "Failed to verify password")
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}

// Len reports the number of registered users.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
