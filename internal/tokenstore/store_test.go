package tokenstore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studi-jo/billetterie/pkg/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	assert.Empty(t, s.Token())

	s.SetToken("token-123")
	assert.Equal(t, "token-123", s.Token())

	s.ClearToken()
	assert.Empty(t, s.Token())
}

func TestSetTokenEmptyClears(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	s.SetToken("token-123")
	s.SetToken("")

	assert.Empty(t, s.Token())
	_, err := os.Stat(filepath.Join(dir, tokenFile))
	assert.True(t, os.IsNotExist(err))
}

func TestCustomerAndAdminTokensIndependent(t *testing.T) {
	s := New(t.TempDir())

	s.SetToken("customer-token")
	s.SetAdminToken("admin-token")

	assert.Equal(t, "customer-token", s.Token())
	assert.Equal(t, "admin-token", s.AdminToken())

	s.ClearToken()
	assert.Empty(t, s.Token())
	assert.Equal(t, "admin-token", s.AdminToken(), "clearing the customer token must not touch the admin token")
}

func TestAdminProfileRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	require.Nil(t, s.AdminProfile())

	s.SetAdminProfile(&domain.AdminProfile{Email: "admin@example.com", FullName: "Admin Durand"})
	profile := s.AdminProfile()
	require.NotNil(t, profile)
	assert.Equal(t, "admin@example.com", profile.Email)
	assert.Equal(t, "Admin Durand", profile.DisplayName())

	s.SetAdminProfile(nil)
	assert.Nil(t, s.AdminProfile())
}

func TestAdminProfileCorruptedBlob(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, adminUserFile), []byte("{not json"), 0600))
	assert.Nil(t, s.AdminProfile())
}

func TestAdminProfileWithoutEmailTreatedAsMissing(t *testing.T) {
	s := New(t.TempDir())
	s.SetAdminProfile(&domain.AdminProfile{FullName: "No Email"})
	// The blob was written, but an incomplete profile must not be trusted.
	assert.Nil(t, s.AdminProfile())
}

func TestClearAdminRemovesBoth(t *testing.T) {
	s := New(t.TempDir())

	s.SetAdminToken("admin-token")
	s.SetAdminProfile(&domain.AdminProfile{Email: "admin@example.com"})
	s.ClearAdmin()

	assert.Empty(t, s.AdminToken())
	assert.Nil(t, s.AdminProfile())
}

func TestFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions")
	}
	dir := filepath.Join(t.TempDir(), "store")
	s := New(dir)
	s.SetToken("token-123")

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(filepath.Join(dir, tokenFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())
}

func TestFailOpenOnUnwritableDir(t *testing.T) {
	// A store pointed at an unusable location must stay silent.
	s := New("")
	s.dir = ""
	s.SetToken("token-123")
	assert.Empty(t, s.Token())
	s.ClearToken()
}
