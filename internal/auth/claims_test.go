package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func TestSignAndParseToken(t *testing.T) {
	now := time.Now()
	token, err := SignToken(testSecret, "user-1", time.Hour, now)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if got := claims.ExpiresAt.Time.Unix(); got != now.Add(time.Hour).Unix() {
		t.Errorf("ExpiresAt = %d, want %d", got, now.Add(time.Hour).Unix())
	}
}

func TestParseToken_Rejects(t *testing.T) {
	now := time.Now()
	valid, _ := SignToken(testSecret, "user-1", time.Hour, now)
	expired, _ := SignToken(testSecret, "user-1", time.Hour, now.Add(-2*time.Hour))
	noUser, _ := SignToken(testSecret, "", time.Hour, now)

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{"wrong secret", []byte("other"), valid},
		{"expired", testSecret, expired},
		{"garbage", testSecret, "not-a-token"},
		{"missing user", testSecret, noUser},
		{"unsigned", testSecret, "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ1c2VyX2lkIjoidXNlci0xIn0."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.secret, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPeekClaims(t *testing.T) {
	token, _ := SignToken(testSecret, "user-9", time.Hour, time.Now())

	claims, err := PeekClaims(token)
	if err != nil {
		t.Fatalf("PeekClaims failed: %v", err)
	}
	if claims.UserID != "user-9" {
		t.Errorf("UserID = %q", claims.UserID)
	}

	if _, err := PeekClaims("nope"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswords(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordLength+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword failed: %v", err)
	}
	if err := CheckPassword(hash, "wrong horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
