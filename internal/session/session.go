// Package session owns the authentication state machine: how the client
// moves between unauthenticated, pending email verification, and
// authenticated, and how the credential is persisted and exposed to
// protected requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"easytask/internal/api"
	"easytask/internal/credstore"
	"easytask/internal/service"
)

// State identifies the current authentication state. Exactly one state is
// active at a time and it is the single source of truth for whether
// protected operations are permitted.
type State int

const (
	// Unauthenticated means no session is active.
	Unauthenticated State = iota
	// Pending means an email is mid-verification. Pending holds only the
	// email and is never persisted; a new process starts Unauthenticated.
	Pending
	// Authenticated means a credential is held and attached to requests.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Validation errors, caught before any network dispatch.
var (
	ErrEmailRequired    = errors.New("email required")
	ErrPasswordRequired = errors.New("password required")
	ErrBadOTP           = errors.New("OTP must be 6 digits")
	ErrNotPending       = errors.New("no verification in progress")
)

// Fallback messages for transport and unknown failures, per operation.
const (
	loginFallback    = "Login failed"
	registerFallback = "Registration failed"
	verifyFallback   = "Verification failed"
	resendFallback   = "Failed to resend OTP"
)

// Manager is the session state machine. Safe for concurrent use; all
// state reads and writes go through one mutex.
type Manager struct {
	auth  service.Auth
	store *credstore.Store
	log   *zap.Logger

	mu           sync.Mutex
	state        State
	pendingEmail string
	cred         credstore.Credential
}

// NewManager creates a Manager in the Unauthenticated state.
func NewManager(auth service.Auth, store *credstore.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{auth: auth, store: store, log: log}
}

// Hydrate restores an authenticated session from the credential store
// without a network call. A missing or expired credential leaves the
// manager Unauthenticated; an expired one is also cleared from disk.
func (m *Manager) Hydrate() error {
	cred, err := m.store.Load()
	switch {
	case err == nil:
	case errors.Is(err, credstore.ErrNoCredential):
		return nil
	case errors.Is(err, credstore.ErrTokenExpired):
		m.log.Debug("stored token expired, clearing")
		return m.store.Clear()
	default:
		return err
	}

	m.mu.Lock()
	m.cred = cred
	m.state = Authenticated
	m.mu.Unlock()
	m.log.Debug("session hydrated", zap.String("email", cred.Profile.Email))
	return nil
}

// State returns the current authentication state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token implements api.TokenProvider. Protected requests read the token
// here at send time, so after Logout no new request can pick up the old
// token.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Authenticated {
		return "", false
	}
	return m.cred.Token, true
}

// Profile returns the cached profile snapshot of the active session.
func (m *Manager) Profile() (service.UserProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Authenticated {
		return service.UserProfile{}, false
	}
	return m.cred.Profile, true
}

// Register creates an account. Local auth state does not change; the
// caller moves on to verification separately.
func (m *Manager) Register(ctx context.Context, reg service.Registration) (service.RegisterResult, error) {
	if strings.TrimSpace(reg.Email) == "" {
		return service.RegisterResult{}, ErrEmailRequired
	}
	if reg.Password == "" {
		return service.RegisterResult{}, ErrPasswordRequired
	}

	res, err := m.auth.Register(ctx, reg)
	if err != nil {
		return service.RegisterResult{}, surface(err, registerFallback)
	}
	return res, nil
}

// BeginVerification records the email for the pending verification flow.
func (m *Manager) BeginVerification(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Pending
	m.pendingEmail = email
}

// PendingEmail returns the email under verification, if any.
func (m *Manager) PendingEmail() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Pending {
		return "", false
	}
	return m.pendingEmail, true
}

// Verify submits a one-time code for the pending email. The code is
// sanitized and must be exactly six digits or the call never reaches the
// network. Success returns to Unauthenticated (the user still has to log
// in); failure leaves the pending state untouched.
func (m *Manager) Verify(ctx context.Context, otp string) (string, error) {
	email, ok := m.PendingEmail()
	if !ok {
		return "", ErrNotPending
	}

	otp = SanitizeOTP(otp)
	if !validOTP(otp) {
		return "", ErrBadOTP
	}

	msg, err := m.auth.VerifyEmail(ctx, email, otp)
	if err != nil {
		return "", surface(err, verifyFallback)
	}

	m.mu.Lock()
	m.state = Unauthenticated
	m.pendingEmail = ""
	m.mu.Unlock()
	return msg, nil
}

// Resend asks the backend for a fresh code for the pending email.
// The pending state is unchanged either way.
func (m *Manager) Resend(ctx context.Context) error {
	email, ok := m.PendingEmail()
	if !ok {
		return ErrNotPending
	}
	if err := m.auth.ResendOTP(ctx, email); err != nil {
		return surface(err, resendFallback)
	}
	return nil
}

// Login exchanges credentials for a token, persists the credential, and
// moves to Authenticated. The credential is written to disk before it
// becomes visible in memory so a hydrate after a crash sees the same
// session this process does.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}

	res, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return surface(err, loginFallback)
	}

	if err := m.store.Save(res.AccessToken, res.User); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	m.mu.Lock()
	m.cred = credstore.Credential{Token: res.AccessToken, Profile: res.User}
	m.state = Authenticated
	m.pendingEmail = ""
	m.mu.Unlock()
	m.log.Debug("logged in", zap.String("email", res.User.Email))
	return nil
}

// Logout clears the stored credential and drops the session. Order is
// strict: disk first, then the in-memory credential and state in one
// locked update. Token() reads that same state, so no request issued
// after Logout returns can carry the old token.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.mu.Lock()
	m.cred = credstore.Credential{}
	m.state = Unauthenticated
	m.pendingEmail = ""
	m.mu.Unlock()
	m.log.Debug("logged out")
	return nil
}

// SanitizeOTP strips everything but digits from user input. Input
// cleanup, not a security boundary; the backend re-validates.
func SanitizeOTP(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validOTP(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// surface converts a backend or transport error into one whose message is
// shown to the user: the backend's structured detail verbatim when
// present, otherwise the operation's fixed fallback string.
func surface(err error, fallback string) error {
	return api.Surface(err, fallback)
}
