package session

import (
	"errors"
	"testing"
	"time"

	"auction-house/internal/auctionerrors"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789abcdef0123"

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := New([]byte(testSecret), ttl)
	store.Now = func() time.Time { return now }
	return store, &now
}

// Test Issue and Validate round-trip
func TestStore_IssueAndValidate(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(time.Hour)

	credential, err := store.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	identity, err := store.Validate(credential)
	require.NoError(t, err)
	require.Equal(t, "alice", identity)

	t.Run("empty_identity_rejected", func(t *testing.T) {
		_, err := store.Issue("")
		require.True(t, errors.Is(err, auctionerrors.ErrInvalidInput))
	})
}

// Test Validate failure modes
func TestStore_Validate_Rejections(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(time.Hour)

	credential, err := store.Issue("alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		credential string
	}{
		{name: "empty_credential", credential: ""},
		{name: "garbage_credential", credential: "not-a-jwt"},
		{name: "truncated_credential", credential: credential[:len(credential)-5]},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Validate(tc.credential)
			require.True(t, errors.Is(err, auctionerrors.ErrUnauthorized))
		})
	}

	t.Run("foreign_signature", func(t *testing.T) {
		other := New([]byte("a-completely-different-secret-!!"), time.Hour)
		other.Now = store.Now
		foreign, err := other.Issue("alice")
		require.NoError(t, err)

		_, err = store.Validate(foreign)
		require.True(t, errors.Is(err, auctionerrors.ErrUnauthorized))
	})

	t.Run("unknown_identity", func(t *testing.T) {
		// Structurally valid token whose session was never registered
		// here: build it with the same secret via a second store.
		other := New([]byte(testSecret), time.Hour)
		other.Now = store.Now
		orphan, err := other.Issue("bob")
		require.NoError(t, err)

		_, err = store.Validate(orphan)
		require.True(t, errors.Is(err, auctionerrors.ErrUnauthorized))
	})

	t.Run("expired_credential", func(t *testing.T) {
		*now = now.Add(2 * time.Hour)

		_, err := store.Validate(credential)
		require.True(t, errors.Is(err, auctionerrors.ErrUnauthorized))
	})
}

// Re-login replaces the prior session: the old credential dies.
func TestStore_Issue_ReplacesPriorSession(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(time.Hour)

	first, err := store.Issue("alice")
	require.NoError(t, err)

	// A later login produces a distinct token.
	store.Now = func() time.Time { return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC) }
	second, err := store.Issue("alice")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = store.Validate(first)
	require.True(t, errors.Is(err, auctionerrors.ErrUnauthorized))

	identity, err := store.Validate(second)
	require.NoError(t, err)
	require.Equal(t, "alice", identity)

	require.Equal(t, 1, store.ActiveCount(), "one identity, one session")
}

// Expired entries are evicted lazily on Validate and in bulk by Sweep.
func TestStore_Eviction(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(time.Hour)

	aliceToken, err := store.Issue("alice")
	require.NoError(t, err)
	_, err = store.Issue("bob")
	require.NoError(t, err)
	require.Equal(t, 2, store.ActiveCount())

	*now = now.Add(2 * time.Hour)

	t.Run("lazy_on_validate", func(t *testing.T) {
		_, err := store.Validate(aliceToken)
		require.True(t, errors.Is(err, auctionerrors.ErrUnauthorized))
		require.Equal(t, 1, store.ActiveCount(), "alice evicted on read")
	})

	t.Run("sweep_clears_the_rest", func(t *testing.T) {
		require.Equal(t, 1, store.Sweep())
		require.Equal(t, 0, store.ActiveCount())
		require.Equal(t, 0, store.Sweep(), "sweep is idempotent")
	})
}

// Sweep leaves live sessions alone.
func TestStore_Sweep_KeepsLiveSessions(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(time.Hour)

	credential, err := store.Issue("alice")
	require.NoError(t, err)

	require.Equal(t, 0, store.Sweep())

	identity, err := store.Validate(credential)
	require.NoError(t, err)
	require.Equal(t, "alice", identity)
}
