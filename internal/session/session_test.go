package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studi-jo/billetterie/internal/tokenstore"
	"github.com/studi-jo/billetterie/pkg/domain"
)

type fakeProfileAPI struct {
	user  *domain.User
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (f *fakeProfileAPI) Profile(ctx context.Context) (*domain.User, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func TestHydrateWithoutToken(t *testing.T) {
	store := tokenstore.New(t.TempDir())
	api := &fakeProfileAPI{}
	s := New(api, store, nil)

	require.True(t, s.Loading())
	s.Hydrate(context.Background())

	assert.False(t, s.Loading())
	assert.False(t, s.Authenticated())
	assert.Zero(t, api.calls.Load(), "no profile fetch without a stored token")
}

func TestHydrateWithValidToken(t *testing.T) {
	store := tokenstore.New(t.TempDir())
	store.SetToken("token-123")
	api := &fakeProfileAPI{user: &domain.User{Email: "fan@example.com"}}
	s := New(api, store, nil)

	s.Hydrate(context.Background())

	assert.False(t, s.Loading())
	assert.True(t, s.Authenticated())
	assert.Equal(t, "token-123", s.Token())
	require.NotNil(t, s.User())
	assert.Equal(t, "fan@example.com", s.User().Email)
}

func TestHydrateWithRejectedToken(t *testing.T) {
	store := tokenstore.New(t.TempDir())
	store.SetToken("stale-token")
	api := &fakeProfileAPI{err: errors.New("HTTP 401: Unauthorized")}
	s := New(api, store, nil)

	s.Hydrate(context.Background())

	assert.False(t, s.Loading())
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Empty(t, store.Token(), "rejected token must be erased from the store")
}

func TestLoginSuccess(t *testing.T) {
	store := tokenstore.New(t.TempDir())
	api := &fakeProfileAPI{user: &domain.User{Email: "fan@example.com", FullName: "Jean Martin"}}
	s := New(api, store, nil)
	s.Hydrate(context.Background())

	require.NoError(t, s.Login(context.Background(), "token-123"))

	assert.True(t, s.Authenticated())
	assert.Equal(t, "token-123", s.Token())
	assert.Equal(t, "token-123", store.Token())
}

func TestLoginRollbackOnProfileFailure(t *testing.T) {
	store := tokenstore.New(t.TempDir())
	api := &fakeProfileAPI{err: errors.New("HTTP 500: Internal Server Error")}
	s := New(api, store, nil)
	s.Hydrate(context.Background())

	err := s.Login(context.Background(), "token-123")
	require.Error(t, err)

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token(), "failed login must retract the token")
	assert.Nil(t, s.User())
	assert.Empty(t, store.Token(), "failed login must erase the stored token")
}

func TestLogoutIsSynchronous(t *testing.T) {
	store := tokenstore.New(t.TempDir())
	api := &fakeProfileAPI{user: &domain.User{Email: "fan@example.com"}}
	s := New(api, store, nil)
	s.Hydrate(context.Background())
	require.NoError(t, s.Login(context.Background(), "token-123"))

	s.Logout()

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Empty(t, store.Token())
}

func TestLogoutBeatsInFlightLogin(t *testing.T) {
	store := tokenstore.New(t.TempDir())
	api := &fakeProfileAPI{user: &domain.User{Email: "fan@example.com"}, gate: make(chan struct{})}
	s := New(api, store, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Login(context.Background(), "token-123")
	}()

	// Wait until the profile fetch is on the wire, then log out.
	require.Eventually(t, func() bool { return api.calls.Load() == 1 }, time.Second, time.Millisecond)
	s.Logout()
	close(api.gate)

	err := <-done
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.False(t, s.Authenticated(), "a late profile response must not resurrect the session")
	assert.Empty(t, s.Token())
}

func TestRefreshReplacesUserSnapshot(t *testing.T) {
	store := tokenstore.New(t.TempDir())
	api := &fakeProfileAPI{user: &domain.User{Email: "fan@example.com", FirstName: "Jean"}}
	s := New(api, store, nil)
	s.Hydrate(context.Background())
	require.NoError(t, s.Login(context.Background(), "token-123"))

	api.user = &domain.User{Email: "fan@example.com", FirstName: "Jeanne"}
	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, "Jeanne", s.User().FirstName)
}

func TestRefreshWhenAnonymousIsNoop(t *testing.T) {
	store := tokenstore.New(t.TempDir())
	api := &fakeProfileAPI{}
	s := New(api, store, nil)
	s.Hydrate(context.Background())

	require.NoError(t, s.Refresh(context.Background()))
	assert.Zero(t, api.calls.Load())
}
