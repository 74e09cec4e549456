package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every config environment variable for the test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{EnvBaseURL, EnvClientID, EnvClientSecret, EnvGrantType, EnvExpiryFormat} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
base_url = "https://us.nintex.io"
client_id = "file-id"
client_secret = "file-secret"
grant_type = "client_credentials"
log_level = "debug"
`)

	resolved, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://us.nintex.io", resolved.Credentials.BaseURL)
	assert.Equal(t, "file-id", resolved.Credentials.ClientID)
	assert.Equal(t, "file-secret", resolved.Credentials.ClientSecret)
	assert.Equal(t, "client_credentials", resolved.Credentials.GrantType)
	assert.Equal(t, "debug", resolved.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
base_url = "https://us.nintex.io"
client_id = "file-id"
client_secret = "file-secret"
grant_type = "client_credentials"
`)

	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvExpiryFormat, "2006-01-02T15:04:05Z07:00")

	resolved, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-id", resolved.Credentials.ClientID)
	// Untouched fields keep their file values.
	assert.Equal(t, "file-secret", resolved.Credentials.ClientSecret)
	assert.Equal(t, "2006-01-02T15:04:05Z07:00", resolved.Credentials.ExpiryLayout)
}

func TestLoadEnvOnly(t *testing.T) {
	clearEnv(t)

	t.Setenv(EnvBaseURL, "https://eu.nintex.io")
	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvClientSecret, "env-secret")
	t.Setenv(EnvGrantType, "client_credentials")

	// The path does not exist; the environment alone carries the
	// configuration.
	resolved, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "https://eu.nintex.io", resolved.Credentials.BaseURL)
	assert.Equal(t, "env-secret", resolved.Credentials.ClientSecret)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)

	resolved, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	// Nothing resolved; required-field validation happens downstream.
	assert.Empty(t, resolved.Credentials.BaseURL)
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `base_url = [broken`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("nacwrap", "config.toml"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
