package remote

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// The runs service reports its window as X-RateLimit-Remaining and
// X-RateLimit-Reset (seconds until the window resets), and sends
// Retry-After with a 429.

// RateLimiter spaces requests and holds them back once the server says the
// current window is spent
type RateLimiter struct {
	mu sync.Mutex

	// remaining is -1 until the server reports a value
	remaining int
	resetsAt  time.Time

	// Minimum interval between requests
	minInterval time.Duration
	lastRequest time.Time

	now func() time.Time
}

// NewRateLimiter creates a limiter allowing about 10 requests per second
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining:   -1,
		minInterval: 100 * time.Millisecond,
		now:         time.Now,
	}
}

// Wait blocks until a request can be made without exceeding the server's limit
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	now := r.now()

	var wait time.Duration
	if r.remaining == 0 && now.Before(r.resetsAt) {
		wait = r.resetsAt.Sub(now)
	}
	if since := now.Sub(r.lastRequest); since < r.minInterval && r.minInterval-since > wait {
		wait = r.minInterval - since
	}
	r.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remaining == 0 && !r.now().Before(r.resetsAt) {
		r.remaining = -1
	}
	if r.remaining > 0 {
		r.remaining--
	}
	r.lastRequest = r.now()
	return nil
}

// UpdateFromHeaders records the window reported in a response
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	if remaining := h.Get("X-RateLimit-Remaining"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil {
			r.remaining = n
		}
	}
	if reset := h.Get("X-RateLimit-Reset"); reset != "" {
		if secs, err := strconv.Atoi(reset); err == nil {
			r.resetsAt = now.Add(time.Duration(secs) * time.Second)
		}
	}
	if retry := h.Get("Retry-After"); retry != "" {
		if secs, err := strconv.Atoi(retry); err == nil {
			r.remaining = 0
			r.resetsAt = now.Add(time.Duration(secs) * time.Second)
		}
	}
}

// Status returns the remaining requests in the window (-1 when unknown)
// and when the window resets
func (r *RateLimiter) Status() (remaining int, resetsAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining, r.resetsAt
}
