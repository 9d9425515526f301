package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/studi-jo/billetterie/internal/tokenstore"
	"github.com/studi-jo/billetterie/pkg/domain"
)

// AdminAPI resolves the authenticated operator's profile. *client.AdminClient
// satisfies it.
type AdminAPI interface {
	CurrentAdmin(ctx context.Context) (*domain.AdminProfile, error)
}

// AdminSession is the operator counterpart of Session. It additionally
// caches the operator profile on disk so a restart shows the operator's name
// immediately, revalidating against the backend in the background.
type AdminSession struct {
	mu    sync.Mutex
	api   AdminAPI
	store *tokenstore.Store
	log   *zap.Logger

	token   string
	profile *domain.AdminProfile
	loading bool
	gen     uint64
}

// NewAdmin creates an admin session in the loading state.
func NewAdmin(api AdminAPI, store *tokenstore.Store, log *zap.Logger) *AdminSession {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminSession{api: api, store: store, log: log, loading: true}
}

// Hydrate restores the admin session from the store. A cached profile is
// trusted immediately; Revalidate confirms it against the backend.
func (s *AdminSession) Hydrate() {
	token := s.store.AdminToken()
	profile := s.store.AdminProfile()

	s.mu.Lock()
	if token != "" {
		s.token = token
		s.profile = profile
	}
	s.loading = false
	s.mu.Unlock()
}

// Revalidate re-fetches the operator profile for the current token. An auth
// rejection clears the session; a transient failure leaves the cached
// profile in place.
func (s *AdminSession) Revalidate(ctx context.Context, isAuthFailure func(error) bool) error {
	s.mu.Lock()
	gen := s.gen
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return nil
	}

	profile, err := s.api.CurrentAdmin(ctx)
	if err != nil {
		if isAuthFailure != nil && isAuthFailure(err) {
			s.log.Info("cached admin token rejected", zap.Error(err))
			s.clearIfCurrent(gen)
		}
		return fmt.Errorf("session.Revalidate: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrSuperseded
	}
	s.profile = profile
	s.store.SetAdminProfile(profile)
	return nil
}

// Login installs an admin token and resolves the operator profile, rolling
// back on failure like the customer session does.
func (s *AdminSession) Login(ctx context.Context, token string) error {
	s.mu.Lock()
	gen := s.gen
	s.token = token
	s.mu.Unlock()
	s.store.SetAdminToken(token)

	profile, err := s.api.CurrentAdmin(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrSuperseded
	}
	if err != nil {
		s.token = ""
		s.profile = nil
		s.store.ClearAdmin()
		return fmt.Errorf("session.AdminLogin: %w", err)
	}
	s.profile = profile
	s.store.SetAdminProfile(profile)
	s.log.Info("admin logged in", zap.String("operator", profile.DisplayName()))
	return nil
}

// Logout clears the admin session synchronously, token and cached profile
// both.
func (s *AdminSession) Logout() {
	s.mu.Lock()
	s.gen++
	s.token = ""
	s.profile = nil
	s.mu.Unlock()
	s.store.ClearAdmin()
	s.log.Info("admin logged out")
}

// Token returns the admin bearer token, or "". Safe as a client
// TokenProvider; it never reads the customer token.
func (s *AdminSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Profile returns the current operator profile, or nil.
func (s *AdminSession) Profile() *domain.AdminProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Authenticated reports whether both an admin token and a profile are
// present.
func (s *AdminSession) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.profile != nil
}

// Loading reports whether hydration has not yet run.
func (s *AdminSession) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *AdminSession) clearIfCurrent(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.token = ""
	s.profile = nil
	s.store.ClearAdmin()
}
