package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func writeSecrets(t *testing.T, dir, redirect string) {
	t.Helper()
	secrets := `{"installed":{"client_id":"id","client_secret":"secret",` +
		`"auth_uri":"https://accounts.google.com/o/oauth2/auth",` +
		`"token_uri":"https://oauth2.googleapis.com/token",` +
		`"redirect_uris":["` + redirect + `"]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClientSecretsFile), []byte(secrets), 0600))
}

func TestConfigForcesLocalhostPort(t *testing.T) {
	tests := []struct {
		redirect string
		want     string
	}{
		{"http://localhost", "http://localhost:6789"},
		{"http://127.0.0.1:9999/cb", "http://127.0.0.1:6789/cb"},
		{"urn:ietf:wg:oauth:2.0:oob", "http://localhost:6789/oauth2callback"},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		writeSecrets(t, dir, tt.redirect)
		cfg, err := NewFlow(dir, nil).Config([]string{"scope"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, cfg.RedirectURL, tt.redirect)
	}
}

func TestConfigMissingSecrets(t *testing.T) {
	_, err := NewFlow(t.TempDir(), nil).Config(nil)
	assert.Error(t, err)
}

func TestTokenRoundTripAndReset(t *testing.T) {
	dir := t.TempDir()
	flow := NewFlow(filepath.Join(dir, "nested"), nil)
	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, SaveToken(flow.TokenPath(), tok))
	got, err := TokenFromFile(flow.TokenPath())
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)
	assert.Equal(t, "r", got.RefreshToken)

	require.NoError(t, flow.Reset())
	_, err = os.Stat(flow.TokenPath())
	assert.True(t, os.IsNotExist(err))
	// resetting twice is fine
	assert.NoError(t, flow.Reset())
}
