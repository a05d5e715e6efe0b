// Package config handles the XDG configuration directory, credential file
// paths, and the API endpoint setting.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "easytask"

	// TokenFile is the stored access-token filename.
	TokenFile = "token.json"

	// ProfileFile is the cached user-profile filename.
	ProfileFile = "user.json"

	// DefaultAPIURL is used when no endpoint is configured.
	DefaultAPIURL = "http://127.0.0.1:8000"

	// envAPIURL overrides the API endpoint.
	envAPIURL = "EASYTASK_API_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the base URL of the task service.
	APIURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/easytask or
// $HOME/.config/easytask. The API URL comes from apiURL when non-empty,
// else the EASYTASK_API_URL environment variable (a .env file in the
// working directory is honored), else DefaultAPIURL.
func New(configDir, apiURL string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	if apiURL == "" {
		// Missing .env is the normal case, not an error.
		_ = godotenv.Load()
		apiURL = os.Getenv(envAPIURL)
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Config{Dir: dir, APIURL: apiURL}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// ProfilePath returns the path to the cached profile file.
func (c *Config) ProfilePath() string {
	return filepath.Join(c.Dir, ProfileFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}
