package users

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bookshelf/catalog-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func hashers() map[string]PasswordHasher {
	return map[string]PasswordHasher{
		"plaintext": PlaintextHasher{},
		"bcrypt":    BcryptHasher{Cost: bcrypt.MinCost},
	}
}

func TestRegisterThenVerify(t *testing.T) {
	for name, hasher := range hashers() {
		t.Run(name, func(t *testing.T) {
			store := NewMemoryStore(hasher)

			require.NoError(t, store.Register("alice", "pw1"))
			assert.NoError(t, store.Verify("alice", "pw1"))

			err := store.Verify("alice", "pw2")
			assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	store := NewMemoryStore(PlaintextHasher{})

	require.NoError(t, store.Register("alice", "pw1"))
	err := store.Register("alice", "other")
	assert.True(t, errors.Is(err, ErrAlreadyExists), "got %v", err)

	// original password still wins
	assert.NoError(t, store.Verify("alice", "pw1"))
	assert.Equal(t, 1, store.Len())
}

func TestRegister_InvalidInput(t *testing.T) {
	store := NewMemoryStore(PlaintextHasher{})

	for _, tc := range []struct{ username, password string }{
		{"", "pw"},
		{"alice", ""},
		{"", ""},
	} {
		err := store.Register(tc.username, tc.password)
		assert.True(t, errors.Is(err, ErrInvalidInput), "register(%q, %q): got %v", tc.username, tc.password, err)
	}
	assert.Equal(t, 0, store.Len())
}

func TestVerify_UnknownUser(t *testing.T) {
	store := NewMemoryStore(nil)

	err := store.Verify("ghost", "pw")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestVerify_CaseSensitiveUsernames(t *testing.T) {
	store := NewMemoryStore(PlaintextHasher{})
	require.NoError(t, store.Register("Alice", "pw1"))

	err := store.Verify("alice", "pw1")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestBcryptHasher_StoresHash(t *testing.T) {
	hasher := BcryptHasher{Cost: bcrypt.MinCost}

	stored, err := hasher.Hash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored)

	_, err = hasher.Compare("not-a-bcrypt-hash", "pw1")
	assert.Error(t, err)
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewMemoryStore(PlaintextHasher{})

	const workers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.Register("alice", fmt.Sprintf("pw-%d", i)); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, store.Len())
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher(&config.AuthConfig{PasswordHasher: config.HasherBcrypt, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	assert.IsType(t, BcryptHasher{}, h)

	h, err = NewHasher(&config.AuthConfig{PasswordHasher: config.HasherPlaintext})
	require.NoError(t, err)
	assert.IsType(t, PlaintextHasher{}, h)

	_, err = NewHasher(&config.AuthConfig{PasswordHasher: "md5"})
	assert.Error(t, err)
}
