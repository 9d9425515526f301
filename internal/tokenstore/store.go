// Package tokenstore persists auth credentials under the user's home
// directory, the way a browser keeps them in local storage. Every operation
// is fail-open: a broken disk must never block login or logout, the worst
// outcome is that the user authenticates again next launch.
package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/studi-jo/billetterie/pkg/domain"
)

const (
	dirName       = ".billetterie"
	tokenFile     = "token"
	adminTokFile  = "admin-token"
	adminUserFile = "admin-user.json"
)

// Store reads and writes credentials in a single directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir. An empty dir means ~/.billetterie.
func New(dir string) *Store {
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dirName)
		}
	}
	return &Store{dir: dir}
}

// Dir returns the credential directory.
func (s *Store) Dir() string {
	return s.dir
}

// Token returns the stored customer token, or "" when absent or unreadable.
func (s *Store) Token() string {
	return s.readFile(tokenFile)
}

// SetToken persists the customer token. An empty token clears it.
func (s *Store) SetToken(token string) {
	s.writeFile(tokenFile, token)
}

// ClearToken removes the customer token.
func (s *Store) ClearToken() {
	s.remove(tokenFile)
}

// AdminToken returns the stored admin token, or "" when absent.
func (s *Store) AdminToken() string {
	return s.readFile(adminTokFile)
}

// SetAdminToken persists the admin token. An empty token clears it.
func (s *Store) SetAdminToken(token string) {
	s.writeFile(adminTokFile, token)
}

// ClearAdminToken removes the admin token.
func (s *Store) ClearAdminToken() {
	s.remove(adminTokFile)
}

// AdminProfile returns the cached admin profile, or nil when absent or
// corrupted. A corrupted blob is treated as missing, never as an error.
func (s *Store) AdminProfile() *domain.AdminProfile {
	if s.dir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(s.dir, adminUserFile))
	if err != nil {
		return nil
	}
	var profile domain.AdminProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil
	}
	if !profile.Valid() {
		return nil
	}
	return &profile
}

// SetAdminProfile caches the admin profile next to the admin token. A nil
// profile clears the cache.
func (s *Store) SetAdminProfile(profile *domain.AdminProfile) {
	if profile == nil {
		s.remove(adminUserFile)
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	s.writeFile(adminUserFile, string(data))
}

// ClearAdmin removes both the admin token and the cached profile.
func (s *Store) ClearAdmin() {
	s.remove(adminTokFile)
	s.remove(adminUserFile)
}

func (s *Store) readFile(name string) string {
	if s.dir == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *Store) writeFile(name, value string) {
	if s.dir == "" {
		return
	}
	if value == "" {
		s.remove(name)
		return
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return
	}
	os.WriteFile(filepath.Join(s.dir, name), []byte(value), 0600) //nolint:errcheck // fail-open
}

func (s *Store) remove(name string) {
	if s.dir == "" {
		return
	}
	os.Remove(filepath.Join(s.dir, name)) //nolint:errcheck // fail-open
}
