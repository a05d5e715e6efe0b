package session_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easytask/internal/api"
	"easytask/internal/config"
	"easytask/internal/credstore"
	"easytask/internal/service"
	"easytask/internal/session"
	"easytask/internal/testutil"
)

func newManager(t *testing.T) (*session.Manager, *testutil.FakeAuth, *credstore.Store) {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir()}
	store := credstore.New(cfg)
	auth := testutil.NewFakeAuth()
	return session.NewManager(auth, store, nil), auth, store
}

func TestSanitizeOTP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123456", "123456"},
		{"12 34 56", "123456"},
		{"12-34-56", "123456"},
		{"abc123", "123"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, session.SanitizeOTP(tt.in), "input %q", tt.in)
	}
}

func TestVerify_OTPValidation(t *testing.T) {
	ctx := context.Background()

	rejected := []string{"", "12345", "1234567", "abcdef", "12a456"}
	for _, otp := range rejected {
		m, auth, _ := newManager(t)
		m.BeginVerification("user@example.com")

		_, err := m.Verify(ctx, otp)
		assert.ErrorIs(t, err, session.ErrBadOTP, "otp %q", otp)
		assert.Equal(t, 0, auth.VerifyCalls, "otp %q must not dispatch", otp)

		// Failure leaves the pending state untouched.
		email, ok := m.PendingEmail()
		require.True(t, ok)
		assert.Equal(t, "user@example.com", email)
	}
}

func TestVerify_SanitizesBeforeDispatch(t *testing.T) {
	ctx := context.Background()
	m, auth, _ := newManager(t)

	_, err := auth.Register(ctx, registration("user@example.com"))
	require.NoError(t, err)

	m.BeginVerification("user@example.com")
	msg, err := m.Verify(ctx, "12 34-56") // fake's code is 123456
	require.NoError(t, err)
	assert.Equal(t, "Email verified successfully", msg)

	// Success returns to Unauthenticated; the user still has to log in.
	assert.Equal(t, session.Unauthenticated, m.State())
}

func TestVerify_RemoteRejection(t *testing.T) {
	ctx := context.Background()
	m, auth, _ := newManager(t)

	_, err := auth.Register(ctx, registration("user@example.com"))
	require.NoError(t, err)

	m.BeginVerification("user@example.com")
	_, err = m.Verify(ctx, "999999")
	require.Error(t, err)

	// Pending survives the failure.
	assert.Equal(t, session.Pending, m.State())
}

func TestVerify_WithoutPending(t *testing.T) {
	m, _, _ := newManager(t)
	_, err := m.Verify(context.Background(), "123456")
	assert.ErrorIs(t, err, session.ErrNotPending)
}

func TestResend_KeepsPending(t *testing.T) {
	ctx := context.Background()
	m, auth, _ := newManager(t)

	_, err := auth.Register(ctx, registration("user@example.com"))
	require.NoError(t, err)

	m.BeginVerification("user@example.com")
	require.NoError(t, m.Resend(ctx))

	assert.Equal(t, session.Pending, m.State())
	assert.Equal(t, 2, auth.CodesSent("user@example.com"))
}

func TestRegister_DoesNotChangeState(t *testing.T) {
	m, _, _ := newManager(t)

	res, err := m.Register(context.Background(), registration("user@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Message)
	assert.Equal(t, session.Unauthenticated, m.State())
}

func TestRegister_Validation(t *testing.T) {
	m, auth, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Register(ctx, registration(""))
	assert.ErrorIs(t, err, session.ErrEmailRequired)

	reg := registration("user@example.com")
	reg.Password = ""
	_, err = m.Register(ctx, reg)
	assert.ErrorIs(t, err, session.ErrPasswordRequired)

	assert.Equal(t, 0, auth.RegisterCalls)
}

func TestLogin_PersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	m, auth, store := newManager(t)
	auth.AddVerifiedUser("user@example.com", "hunter22", "Test User")

	require.NoError(t, m.Login(ctx, "user@example.com", "hunter22"))
	assert.Equal(t, session.Authenticated, m.State())

	tok, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, testutil.TestToken, tok)

	// The store holds what the backend returned.
	cred, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, testutil.TestToken, cred.Token)
	assert.Equal(t, "user@example.com", cred.Profile.Email)

	// A fresh manager over the same store hydrates without a network call.
	logins := auth.LoginCalls
	m2 := session.NewManager(auth, store, nil)
	require.NoError(t, m2.Hydrate())
	assert.Equal(t, session.Authenticated, m2.State())
	assert.Equal(t, logins, auth.LoginCalls)

	profile, ok := m2.Profile()
	require.True(t, ok)
	assert.Equal(t, "Test User", profile.FullName)
}

func TestLogin_BadPassword(t *testing.T) {
	m, auth, _ := newManager(t)
	auth.AddVerifiedUser("user@example.com", "hunter22", "")

	err := m.Login(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, session.Unauthenticated, m.State())

	_, ok := m.Token()
	assert.False(t, ok)
}

func TestLogout_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	m, auth, store := newManager(t)
	auth.AddVerifiedUser("user@example.com", "hunter22", "")

	require.NoError(t, m.Login(ctx, "user@example.com", "hunter22"))
	require.NoError(t, m.Logout())

	assert.Equal(t, session.Unauthenticated, m.State())
	_, ok := m.Token()
	assert.False(t, ok, "no token may be visible after logout")

	_, err := store.Load()
	assert.ErrorIs(t, err, credstore.ErrNoCredential)

	// Hydrating a fresh manager stays unauthenticated.
	m2 := session.NewManager(auth, store, nil)
	require.NoError(t, m2.Hydrate())
	assert.Equal(t, session.Unauthenticated, m2.State())
}

func TestSurfacedMessages(t *testing.T) {
	m, auth, _ := newManager(t)
	ctx := context.Background()

	// Remote rejection: structured detail travels verbatim.
	auth.LoginErr = &api.Error{StatusCode: http.StatusUnauthorized, Detail: "Incorrect email or password"}
	err := m.Login(ctx, "user@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", err.Error())

	// Transport fault: fixed fallback, cause still inspectable.
	cause := errors.New("connection refused")
	auth.LoginErr = cause
	err = m.Login(ctx, "user@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "Login failed", err.Error())
	assert.ErrorIs(t, err, cause)
}

func registration(email string) service.Registration {
	return service.Registration{Email: email, Password: "hunter22"}
}
