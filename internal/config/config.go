// Package config resolves the client-credential configuration from the
// environment and an optional TOML profile file. Environment variables
// win over the file, and validation of required fields happens in the
// nintex package before any network call.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pepsimidamerica/nacwrap-go/pkg/nintex"
)

// Environment variable names.
const (
	EnvBaseURL      = "NINTEX_BASE_URL"
	EnvClientID     = "NINTEX_CLIENT_ID"
	EnvClientSecret = "NINTEX_CLIENT_SECRET"
	EnvGrantType    = "NINTEX_GRANT_TYPE"
	EnvExpiryFormat = "NINTEX_EXPIRY_FORMAT"
)

// File mirrors the TOML config file.
type File struct {
	BaseURL      string `toml:"base_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	GrantType    string `toml:"grant_type"`
	ExpiryFormat string `toml:"expiry_format"`
	LogLevel     string `toml:"log_level"`
}

// Resolved is the effective configuration after merging the file and
// the environment.
type Resolved struct {
	Credentials nintex.Credentials
	LogLevel    string
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/nacwrap/config.toml or the platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locating user config dir: %w", err)
	}

	return filepath.Join(dir, "nacwrap", "config.toml"), nil
}

// Load reads the config file at path (the default path when empty) and
// applies environment overrides. A missing file is not an error; the
// environment alone may carry the full configuration. Required-field
// validation is deferred to nintex.NewCredentialSource so that it also
// covers programmatic construction.
func Load(path string) (*Resolved, error) {
	var f File

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}

		path = defaultPath
	}

	if _, err := toml.DecodeFile(path, &f); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnv(&f)

	return &Resolved{
		Credentials: nintex.Credentials{
			BaseURL:      f.BaseURL,
			ClientID:     f.ClientID,
			ClientSecret: f.ClientSecret,
			GrantType:    f.GrantType,
			ExpiryLayout: f.ExpiryFormat,
		},
		LogLevel: f.LogLevel,
	}, nil
}

// applyEnv overlays environment variables onto the file values.
func applyEnv(f *File) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		f.BaseURL = v
	}

	if v := os.Getenv(EnvClientID); v != "" {
		f.ClientID = v
	}

	if v := os.Getenv(EnvClientSecret); v != "" {
		f.ClientSecret = v
	}

	if v := os.Getenv(EnvGrantType); v != "" {
		f.GrantType = v
	}

	if v := os.Getenv(EnvExpiryFormat); v != "" {
		f.ExpiryFormat = v
	}
}
