package auth

import (
	"errors"
	"testing"
	"time"

	"runtracker/internal/store"
)

func setupTestDB(t *testing.T) *store.DB {
	t.Helper()

	db, err := store.OpenPath(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTokenSource_LoggedOut(t *testing.T) {
	ts := NewTokenSource(setupTestDB(t))

	if _, err := ts.Token(); !errors.Is(err, store.ErrNoAuth) {
		t.Errorf("expected store.ErrNoAuth, got %v", err)
	}
	if ts.Authenticated() {
		t.Error("expected not authenticated")
	}
}

func TestTokenSource_LoginLogout(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTokenSource(db)

	token, _ := SignToken(testSecret, "user-1", time.Hour, time.Now())
	auth, err := ts.Login(token)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if auth.UserID != "user-1" || auth.ExpiresAt.IsZero() {
		t.Errorf("unexpected credential: %+v", auth)
	}

	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken != token || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token: %+v", tok)
	}

	// A fresh source reads the persisted credential
	if !NewTokenSource(db).Authenticated() {
		t.Error("credential not persisted")
	}

	if err := ts.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if ts.Authenticated() {
		t.Error("expected not authenticated after logout")
	}
	if NewTokenSource(db).Authenticated() {
		t.Error("credential not cleared")
	}
}

func TestTokenSource_Expired(t *testing.T) {
	db := setupTestDB(t)
	if err := db.SaveAuth(&store.Auth{UserID: "user-1", Token: "tok", ExpiresAt: time.Now().Add(-time.Minute)}); err != nil {
		t.Fatal(err)
	}

	ts := NewTokenSource(db)
	if _, err := ts.Token(); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}

	ts.now = func() time.Time { return time.Now().Add(-3 * time.Minute) }
	if _, err := ts.Token(); err != nil {
		t.Errorf("token should be valid three minutes earlier, got %v", err)
	}

	ts.now = func() time.Time { return time.Now().Add(-90 * time.Second) }
	if _, err := ts.Token(); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired inside the expiry buffer, got %v", err)
	}
}

func TestTokenSource_LoginRejects(t *testing.T) {
	ts := NewTokenSource(setupTestDB(t))

	if _, err := ts.Login("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	expired, _ := SignToken(testSecret, "user-1", time.Hour, time.Now().Add(-2*time.Hour))
	if _, err := ts.Login(expired); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
}

func TestTokenSource_NoExpiry(t *testing.T) {
	db := setupTestDB(t)
	if err := db.SaveAuth(&store.Auth{UserID: "user-1", Token: "tok"}); err != nil {
		t.Fatal(err)
	}

	if !NewTokenSource(db).Authenticated() {
		t.Error("a token without expiry should stay valid")
	}
}
