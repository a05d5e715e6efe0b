package credstore_test

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easytask/internal/config"
	"easytask/internal/credstore"
	"easytask/internal/service"
)

func newStore(t *testing.T) (*credstore.Store, *config.Config) {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir()}
	return credstore.New(cfg), cfg
}

func mintJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user@example.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, cfg := newStore(t)

	profile := service.UserProfile{ID: "u1", Email: "user@example.com", FullName: "Test User"}
	require.NoError(t, store.Save("opaque-token", profile))
	assert.True(t, cfg.HasToken())

	cred, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", cred.Token)
	assert.Equal(t, profile, cred.Profile)
}

func TestLoad_MissingFiles(t *testing.T) {
	store, cfg := newStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, credstore.ErrNoCredential)

	// A token without its profile is treated as no credential.
	require.NoError(t, store.Save("tok", service.UserProfile{Email: "a@b.c"}))
	require.NoError(t, os.Remove(cfg.ProfilePath()))
	_, err = store.Load()
	assert.ErrorIs(t, err, credstore.ErrNoCredential)
}

func TestLoad_ExpiredJWT(t *testing.T) {
	store, _ := newStore(t)

	expired := mintJWT(t, time.Now().Add(-time.Minute))
	require.NoError(t, store.Save(expired, service.UserProfile{Email: "a@b.c"}))

	_, err := store.Load()
	assert.ErrorIs(t, err, credstore.ErrTokenExpired)
}

func TestLoad_ValidJWT(t *testing.T) {
	store, _ := newStore(t)

	live := mintJWT(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(live, service.UserProfile{Email: "a@b.c"}))

	cred, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, live, cred.Token)
}

func TestClear_Idempotent(t *testing.T) {
	store, cfg := newStore(t)

	require.NoError(t, store.Clear())

	require.NoError(t, store.Save("tok", service.UserProfile{Email: "a@b.c"}))
	require.NoError(t, store.Clear())
	assert.False(t, cfg.HasToken())
	_, err := store.Load()
	assert.ErrorIs(t, err, credstore.ErrNoCredential)

	require.NoError(t, store.Clear())
}
