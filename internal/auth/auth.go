// Package auth checks login credentials against bcrypt hashes kept in the store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/studentperf/internal/store"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Config holds authentication settings.
type Config struct {
	// AdminUser and AdminPassword describe the account seeded on first start.
	AdminUser     string
	AdminPassword string
	// Cost is the bcrypt work factor.
	Cost int
}

// DefaultConfig returns a Config with the default admin account.
func DefaultConfig() Config {
	return Config{
		AdminUser:     "admin",
		AdminPassword: "admin123",
		Cost:          bcrypt.DefaultCost,
	}
}

// ConfigFromEnv overlays STUDENTPERF_ADMIN_PASSWORD on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("STUDENTPERF_ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}
	return cfg
}

// Authenticator verifies and creates accounts.
type Authenticator struct {
	users store.UserRepo
	cfg   Config
}

// New returns an Authenticator backed by users.
func New(users store.UserRepo, cfg Config) *Authenticator {
	if cfg.Cost == 0 {
		cfg.Cost = bcrypt.DefaultCost
	}
	return &Authenticator{users: users, cfg: cfg}
}

// EnsureAdmin seeds the configured admin account if it does not exist.
func (a *Authenticator) EnsureAdmin(ctx context.Context) error {
	hash, err := a.hash(a.cfg.AdminPassword)
	if err != nil {
		return err
	}
	if _, err := a.users.EnsureAdmin(ctx, a.cfg.AdminUser, hash); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}

// Authenticate returns the user when password matches its stored hash.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := a.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// AddUser creates an account with a hashed password.
func (a *Authenticator) AddUser(ctx context.Context, username, password, role string) (*store.User, error) {
	if username == "" {
		return nil, fmt.Errorf("add user: empty username")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("add user: password must be at least 6 characters")
	}
	switch role {
	case "":
		role = store.RoleTeacher
	case store.RoleAdmin, store.RoleTeacher:
	default:
		return nil, fmt.Errorf("add user: unknown role %q", role)
	}
	hash, err := a.hash(password)
	if err != nil {
		return nil, err
	}
	u := &store.User{Username: username, PasswordHash: hash, Role: role}
	if err := a.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *Authenticator) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), a.cfg.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
