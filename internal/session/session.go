// Package session holds the process-wide authentication state: the current
// token and user, hydration from the credential store at startup, and the
// login/logout lifecycle. Pages read it instead of tracking auth themselves.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/studi-jo/billetterie/internal/tokenstore"
	"github.com/studi-jo/billetterie/pkg/domain"
)

// ErrSuperseded reports that an in-flight login lost to a logout that
// happened while the profile fetch was on the wire. Its result must be
// discarded, not shown as a failure.
var ErrSuperseded = errors.New("session superseded by logout")

// ProfileAPI resolves the authenticated user's profile. *client.Client
// satisfies it.
type ProfileAPI interface {
	Profile(ctx context.Context) (*domain.User, error)
}

// Session is the customer authentication state machine. It starts in a
// loading state, settles to anonymous or authenticated exactly once during
// Hydrate, and from then on moves only through Login and Logout.
//
// Invariant: Authenticated() holds iff both a token and a user are present.
// A token without a resolvable user is never left behind; Login rolls both
// back together.
type Session struct {
	mu    sync.Mutex
	api   ProfileAPI
	store *tokenstore.Store
	log   *zap.Logger

	token   string
	user    *domain.User
	loading bool
	gen     uint64
}

// New creates a session in the loading state. Call Hydrate to settle it.
func New(api ProfileAPI, store *tokenstore.Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{api: api, store: store, log: log, loading: true}
}

// Hydrate restores the session from the credential store. A stored token
// whose profile no longer resolves is discarded. Loading becomes false when
// hydration settles, and only then.
func (s *Session) Hydrate(ctx context.Context) {
	token := s.store.Token()
	if token == "" {
		s.settle("", nil)
		return
	}

	s.mu.Lock()
	s.token = token
	gen := s.gen
	s.mu.Unlock()

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.log.Info("stored token rejected, starting anonymous", zap.Error(err))
		s.store.ClearToken()
		s.settleIfCurrent(gen, "", nil)
		return
	}
	s.settleIfCurrent(gen, token, user)
}

// Login installs a token and resolves its profile. If the profile fetch
// fails the token is rolled back atomically and the error returned, so the
// caller never observes a token without a user. A logout racing this call
// wins; the stale result is dropped and ErrSuperseded returned.
func (s *Session) Login(ctx context.Context, token string) error {
	s.mu.Lock()
	gen := s.gen
	s.token = token
	s.mu.Unlock()
	s.store.SetToken(token)

	user, err := s.api.Profile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrSuperseded
	}
	if err != nil {
		s.token = ""
		s.user = nil
		s.store.ClearToken()
		return fmt.Errorf("session.Login: %w", err)
	}
	s.user = user
	s.log.Info("customer logged in", zap.String("user", user.DisplayName()))
	return nil
}

// Logout clears the session synchronously. No network call is made, and any
// login still in flight is invalidated.
func (s *Session) Logout() {
	s.mu.Lock()
	s.gen++
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.store.ClearToken()
	s.log.Info("customer logged out")
}

// Refresh re-fetches the profile for the current token, replacing the user
// snapshot wholesale. A session that is not authenticated is left alone.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return nil
	}

	user, err := s.api.Profile(ctx)
	if err != nil {
		return fmt.Errorf("session.Refresh: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrSuperseded
	}
	s.user = user
	return nil
}

// Token returns the current bearer token, or "". Safe as a client
// TokenProvider.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the current user snapshot, or nil.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated reports whether both a token and a user are present.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// Loading reports whether hydration has not yet settled.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) settle(token string, user *domain.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.loading = false
	s.mu.Unlock()
}

func (s *Session) settleIfCurrent(gen uint64, token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.token = token
		s.user = user
	}
	s.loading = false
}
