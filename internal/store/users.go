package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned for profile lookups of unknown user IDs.
var ErrUserNotFound = errors.New("user not found")

// normEmail trims and lowercases the email (needed if DB col isnt citext)
func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// CreateUser inserts a new user with a hashed password
func (p *Postgres) CreateUser(ctx context.Context, fullName, email, password string) (Profile, error) {
	email = normEmail(email)
	if fullName == "" || email == "" || password == "" {
		return Profile{}, errors.New("missing name, email, or password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, err
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO users (full_name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, full_name, email, created_at
	`, fullName, email, string(hash))

	var u Profile
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.CreatedAt); err != nil {
		return Profile{}, err
	}
	return u, nil
}

// GetUserProfile returns the profile fields the relay layer needs
// (display name for the avatar) for a user ID.
func (p *Postgres) GetUserProfile(ctx context.Context, id string) (Profile, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, full_name, email, created_at
		FROM users
		WHERE id = $1
	`, id)

	var u Profile
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, err
	}
	return u, nil
}
