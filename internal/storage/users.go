package storage

import (
	"context"
	"fmt"

	"github.com/momentumx/momentumx/internal/models"
)

// CreateUser inserts a user together with default preferences and stats rows.
// Returns ErrConflict when the username or email is taken.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.UserRow, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u := &models.UserRow{Username: username, Email: email, IsActive: true}
	err = tx.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, join_date
	`, username, email, passwordHash).Scan(&u.ID, &u.JoinDate)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", classify(err))
	}

	if _, err := tx.Exec(ctx, `INSERT INTO user_preferences (user_id) VALUES ($1)`, u.ID); err != nil {
		return nil, fmt.Errorf("inserting preferences: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO user_stats (user_id) VALUES ($1)`, u.ID); err != nil {
		return nil, fmt.Errorf("inserting stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing user: %w", err)
	}
	return u, nil
}

// GetActiveUserByUsername returns the active user with the given username,
// including the password hash.
func (db *DB) GetActiveUserByUsername(ctx context.Context, username string) (*models.UserRow, error) {
	var u models.UserRow
	err := db.Pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, join_date, last_login, is_active
		FROM users
		WHERE username = $1 AND is_active
	`, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.JoinDate, &u.LastLogin, &u.IsActive)
	if err != nil {
		return nil, fmt.Errorf("querying user %q: %w", username, classify(err))
	}
	return &u, nil
}

// TouchLastLogin records a successful login.
func (db *DB) TouchLastLogin(ctx context.Context, userID int) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE users SET last_login = NOW(), updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

// GetProfile returns the user joined with preferences and stats.
func (db *DB) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	var p models.Profile
	p.Preferences.UserID = userID
	row := db.Pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.email, u.join_date, u.last_login, u.is_active,
		       `+preferenceColumns("up")+`,
		       `+statsColumns("us")+`
		FROM users u
		JOIN user_preferences up ON up.user_id = u.id
		JOIN user_stats us ON us.user_id = u.id
		WHERE u.id = $1
	`, userID)

	dest := []any{&p.ID, &p.Username, &p.Email, &p.JoinDate, &p.LastLogin, &p.IsActive}
	dest = append(dest, preferenceDest(&p.Preferences)...)
	dest = append(dest, statsDest(&p.Stats)...)
	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("querying profile: %w", classify(err))
	}
	return &p, nil
}
