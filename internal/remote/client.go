package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"runtracker/internal/store"
)

// DefaultBaseURL is where `runtracker serve` listens by default
const DefaultBaseURL = "http://localhost:8080"

var (
	// ErrUnauthorized is returned when the server rejects the session token
	ErrUnauthorized = errors.New("remote rejected session token")
	// ErrBadCredentials is returned when the server rejects an email and password
	ErrBadCredentials = errors.New("invalid email or password")
)

// Client talks to the runs service
type Client struct {
	baseURL     string
	httpClient  *http.Client
	plainClient *http.Client // account endpoints, no session token
	rateLimiter *RateLimiter
}

// NewClient creates a runs client that authenticates every request with tokens
// from tokenSource
func NewClient(baseURL string, tokenSource oauth2.TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		plainClient: &http.Client{Timeout: 30 * time.Second},
		rateLimiter: NewRateLimiter(),
	}
}

// List fetches the account's runs, newest first
func (c *Client) List(ctx context.Context) ([]store.RunSummary, error) {
	resp, err := c.do(ctx, http.MethodGet, "/runs", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding runs: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("listing runs: %s", body.Error)
	}

	return body.Runs, nil
}

// Save uploads a run and returns it with the id and date the server assigned
func (c *Client) Save(ctx context.Context, run store.RunSummary) (store.RunSummary, error) {
	payload, err := json.Marshal(run)
	if err != nil {
		return run, fmt.Errorf("encoding run: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/runs", payload)
	if err != nil {
		return run, err
	}
	defer resp.Body.Close()

	var body SaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return run, fmt.Errorf("decoding save response: %w", err)
	}
	if !body.Success {
		return run, fmt.Errorf("saving run: %s", body.Error)
	}

	if body.RunID != "" {
		run.ID = string(body.RunID)
	}
	if !body.Date.IsZero() {
		run.Date = body.Date.UTC()
	}
	return run, nil
}

// Register creates an account and returns a session token for it
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	return c.account(ctx, "/auth/register", AuthRequest{Email: email, Password: password, Name: name})
}

// Login exchanges an email and password for a session token
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.account(ctx, "/auth/login", AuthRequest{Email: email, Password: password})
}

func (c *Client) account(ctx context.Context, path string, req AuthRequest) (*AuthResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	resp, err := c.send(ctx, c.plainClient, http.MethodPost, path, payload)
	if errors.Is(err, ErrUnauthorized) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding auth response: %w", err)
	}
	if !body.Success || body.Token == "" {
		return nil, fmt.Errorf("authenticating: %s", body.Error)
	}
	return &body, nil
}

// RateLimitStatus returns what the server last reported
func (c *Client) RateLimitStatus() (remaining int, resetsAt time.Time) {
	return c.rateLimiter.Status()
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	return c.send(ctx, c.httpClient, method, path, payload)
}

func (c *Client) send(ctx context.Context, client *http.Client, method, path string, payload []byte) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return resp, nil
}
