// Package credstore persists the session credential: one access token and
// one user-profile snapshot, as two JSON files under the config directory.
// It is a dumb storage surface; all state decisions live in the session
// manager.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"easytask/internal/config"
	"easytask/internal/service"
)

var (
	// ErrNoCredential is returned by Load when no credential is stored.
	ErrNoCredential = errors.New("no stored credential")

	// ErrTokenExpired is returned by Load when the stored token's
	// expiry has passed.
	ErrTokenExpired = errors.New("stored token expired")
)

// defaultTokenTTL is assumed when the token carries no readable expiry claim.
const defaultTokenTTL = 15 * time.Minute

// Credential is the stored pair of access token and profile snapshot.
type Credential struct {
	Token   string
	Profile service.UserProfile
}

// Store reads and writes the credential files for one config directory.
type Store struct {
	cfg *config.Config
}

// New creates a Store over the given config directory.
func New(cfg *config.Config) *Store {
	return &Store{cfg: cfg}
}

// Save writes the token and profile. The token file is written first so a
// failure never leaves a profile without its token.
func (s *Store) Save(token string, profile service.UserProfile) error {
	if err := s.cfg.EnsureDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tok := &oauth2.Token{
		AccessToken: token,
		TokenType:   "bearer",
		Expiry:      tokenExpiry(token),
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.TokenPath(), data, 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	data, err = json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.ProfilePath(), data, 0600); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Load reads the stored credential. Returns ErrNoCredential when either
// file is missing and ErrTokenExpired when the token is past its expiry.
func (s *Store) Load() (Credential, error) {
	data, err := os.ReadFile(s.cfg.TokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Credential{}, ErrNoCredential
		}
		return Credential{}, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return Credential{}, fmt.Errorf("parse token file: %w", err)
	}
	if tok.AccessToken == "" {
		return Credential{}, ErrNoCredential
	}
	if !tok.Expiry.IsZero() && time.Now().After(tok.Expiry) {
		return Credential{}, ErrTokenExpired
	}

	data, err = os.ReadFile(s.cfg.ProfilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return Credential{}, ErrNoCredential
		}
		return Credential{}, err
	}
	var profile service.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return Credential{}, fmt.Errorf("parse profile file: %w", err)
	}

	return Credential{Token: tok.AccessToken, Profile: profile}, nil
}

// Clear removes both files. Missing files are not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.cfg.TokenPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(s.cfg.ProfilePath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// tokenExpiry peeks at the JWT exp claim without verifying the signature.
// The client never trusts the claim for authorization, only to skip
// hydrating a token the backend would reject anyway.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Now().Add(defaultTokenTTL)
}
