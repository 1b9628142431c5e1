package store

import (
	"database/sql"
	"errors"
	"time"
)

// GetAuth retrieves the stored session credential
func (db *DB) GetAuth() (*Auth, error) {
	row := db.QueryRow(`
		SELECT user_id, token, expires_at
		FROM auth
		WHERE id = 1
	`)

	var auth Auth
	var expiresAt int64
	err := row.Scan(&auth.UserID, &auth.Token, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, err
	}

	if expiresAt > 0 {
		auth.ExpiresAt = time.Unix(expiresAt, 0)
	}
	return &auth, nil
}

// SaveAuth stores or replaces the session credential
func (db *DB) SaveAuth(auth *Auth) error {
	var expiresAt int64
	if !auth.ExpiresAt.IsZero() {
		expiresAt = auth.ExpiresAt.Unix()
	}

	_, err := db.Exec(`
		INSERT INTO auth (id, user_id, token, expires_at, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			token = excluded.token,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP
	`, auth.UserID, auth.Token, expiresAt)
	return err
}

// ClearAuth removes the stored session credential
func (db *DB) ClearAuth() error {
	_, err := db.Exec("DELETE FROM auth WHERE id = 1")
	return err
}
