package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrUserNotFound is returned when no account matches
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when registering an email that is already taken
var ErrUserExists = errors.New("user already exists")

// CreateUser inserts a new account. Emails are compared case-insensitively.
func (db *DB) CreateUser(u *User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", u.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking email: %w", err)
	}
	if exists > 0 {
		return ErrUserExists
	}

	_, err = db.Exec(`
		INSERT INTO users (id, email, name, password_hash)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Email, u.Name, u.PasswordHash)
	return err
}

// GetUserByEmail looks up an account by email
func (db *DB) GetUserByEmail(email string) (*User, error) {
	return db.getUser("email", strings.ToLower(strings.TrimSpace(email)))
}

// GetUser looks up an account by id
func (db *DB) GetUser(id string) (*User, error) {
	return db.getUser("id", id)
}

func (db *DB) getUser(column, value string) (*User, error) {
	row := db.QueryRow(`
		SELECT id, email, name, password_hash
		FROM users
		WHERE `+column+` = ?
	`, value)

	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
