package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Roles a user may hold.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// User is a login account. Passwords are stored only as hashes.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type userRepo struct {
	drv *entsql.Driver
}

func (r *userRepo) Get(ctx context.Context, username string) (*User, error) {
	b := builder()
	t := b.Table(UsersTable.Name)
	q, args := b.Select(t.Columns("id", "username", "password_hash", "role", "created_at")...).
		From(t).
		Where(entsql.EQ(t.C("username"), username)).
		Query()

	rows, err := query(ctx, r.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query user: %w", err)
		}
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	var u User
	if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if u.Username == "" {
		return fmt.Errorf("create user: empty username")
	}
	if u.Role == "" {
		u.Role = RoleTeacher
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	q, args := builder().Insert(UsersTable.Name).
		Columns("username", "password_hash", "role", "created_at").
		Values(u.Username, u.PasswordHash, u.Role, u.CreatedAt).
		Query()
	res, err := exec(ctx, r.drv, q, args)
	if err != nil {
		return fmt.Errorf("create user %q: %w", u.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user %q: %w", u.Username, err)
	}
	u.ID = int(id)
	return nil
}

func (r *userRepo) EnsureAdmin(ctx context.Context, username, passwordHash string) (bool, error) {
	b := builder()
	t := b.Table(UsersTable.Name)
	n, err := count(ctx, r.drv, b.Select(entsql.Count("*")).From(t).Where(entsql.EQ(t.C("username"), username)))
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := r.Create(ctx, &User{Username: username, PasswordHash: passwordHash, Role: RoleAdmin}); err != nil {
		return false, err
	}
	return true, nil
}
