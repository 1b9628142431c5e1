package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"runtracker/internal/store"
)

// ErrSessionExpired is returned when the stored session token has expired
var ErrSessionExpired = errors.New("session expired, log in again")

// expiryDelta treats a token as expired this long before it actually expires
const expiryDelta = 60 * time.Second

// CredentialStore persists the session credential. *store.DB satisfies it.
type CredentialStore interface {
	GetAuth() (*store.Auth, error)
	SaveAuth(auth *store.Auth) error
	ClearAuth() error
}

// TokenSource serves the stored session token to HTTP clients
type TokenSource struct {
	creds CredentialStore
	now   func() time.Time

	mu     sync.Mutex
	auth   *store.Auth
	loaded bool
}

// NewTokenSource creates a TokenSource backed by creds
func NewTokenSource(creds CredentialStore) *TokenSource {
	return &TokenSource{
		creds: creds,
		now:   time.Now,
	}
}

// Token returns the stored token. It fails with store.ErrNoAuth when logged out
// and ErrSessionExpired once the token has expired.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	auth, err := ts.loadLocked()
	if err != nil {
		return nil, err
	}
	if ts.expiredLocked(auth) {
		return nil, ErrSessionExpired
	}

	return &oauth2.Token{
		AccessToken: auth.Token,
		TokenType:   "Bearer",
		Expiry:      auth.ExpiresAt,
	}, nil
}

// Authenticated reports whether a usable token is stored
func (ts *TokenSource) Authenticated() bool {
	_, err := ts.Token()
	return err == nil
}

// Current returns the stored credential without checking expiry
func (ts *TokenSource) Current() (*store.Auth, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	auth, err := ts.loadLocked()
	if err != nil {
		return nil, err
	}
	cp := *auth
	return &cp, nil
}

// Login stores a session token issued by the runs service
func (ts *TokenSource) Login(token string) (*store.Auth, error) {
	claims, err := PeekClaims(token)
	if err != nil {
		return nil, err
	}

	auth := &store.Auth{
		UserID: claims.UserID,
		Token:  token,
	}
	if claims.ExpiresAt != nil {
		auth.ExpiresAt = claims.ExpiresAt.Time
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.expiredLocked(auth) {
		return nil, ErrSessionExpired
	}
	if err := ts.creds.SaveAuth(auth); err != nil {
		return nil, fmt.Errorf("saving credential: %w", err)
	}
	ts.auth = auth
	ts.loaded = true
	return auth, nil
}

// Logout removes the stored token
func (ts *TokenSource) Logout() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if err := ts.creds.ClearAuth(); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	ts.auth = nil
	ts.loaded = true
	return nil
}

func (ts *TokenSource) loadLocked() (*store.Auth, error) {
	if !ts.loaded {
		auth, err := ts.creds.GetAuth()
		if err != nil && !errors.Is(err, store.ErrNoAuth) {
			return nil, fmt.Errorf("loading credential: %w", err)
		}
		ts.auth = auth
		ts.loaded = true
	}
	if ts.auth == nil {
		return nil, store.ErrNoAuth
	}
	return ts.auth, nil
}

func (ts *TokenSource) expiredLocked(auth *store.Auth) bool {
	if auth.ExpiresAt.IsZero() {
		return false
	}
	return ts.now().Add(expiryDelta).After(auth.ExpiresAt)
}
