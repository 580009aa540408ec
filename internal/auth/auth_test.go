package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/studentperf/internal/store"
)

func newTestAuth(t *testing.T) *Authenticator {
	t.Helper()
	st, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := DefaultConfig()
	cfg.Cost = bcrypt.MinCost
	a := New(st.Users(), cfg)
	require.NoError(t, a.EnsureAdmin(context.Background()))
	return a
}

func TestAuthenticate_DefaultAdmin(t *testing.T) {
	a := newTestAuth(t)
	ctx := context.Background()

	u, err := a.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, store.RoleAdmin, u.Role)
	assert.NotEqual(t, "admin123", u.PasswordHash)
}

func TestAuthenticate_Rejects(t *testing.T) {
	a := newTestAuth(t)
	ctx := context.Background()

	tests := []struct {
		name, user, pass string
	}{
		{"wrong password", "admin", "admin124"},
		{"unknown user", "root", "admin123"},
		{"empty password", "admin", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(ctx, tt.user, tt.pass)
			assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
		})
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	a := newTestAuth(t)
	require.NoError(t, a.EnsureAdmin(context.Background()))

	_, err := a.Authenticate(context.Background(), "admin", "admin123")
	assert.NoError(t, err)
}

func TestAddUser(t *testing.T) {
	a := newTestAuth(t)
	ctx := context.Background()

	u, err := a.AddUser(ctx, "tess", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, store.RoleTeacher, u.Role)

	_, err = a.Authenticate(ctx, "tess", "secret1")
	assert.NoError(t, err)

	_, err = a.AddUser(ctx, "short", "abc", "")
	assert.Error(t, err)
	_, err = a.AddUser(ctx, "boss", "secret1", "owner")
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STUDENTPERF_ADMIN_PASSWORD", "s3cret!")
	cfg := ConfigFromEnv()
	assert.Equal(t, "s3cret!", cfg.AdminPassword)
	assert.Equal(t, "admin", cfg.AdminUser)
}
