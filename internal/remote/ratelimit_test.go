package remote

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRateLimiter_UpdateFromHeaders(t *testing.T) {
	now := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		headers       map[string]string
		wantRemaining int
		wantReset     time.Time
	}{
		{
			name:          "no headers",
			headers:       nil,
			wantRemaining: -1,
		},
		{
			name:          "window headers",
			headers:       map[string]string{"X-RateLimit-Remaining": "12", "X-RateLimit-Reset": "30"},
			wantRemaining: 12,
			wantReset:     now.Add(30 * time.Second),
		},
		{
			name:          "retry after",
			headers:       map[string]string{"X-RateLimit-Remaining": "3", "Retry-After": "5"},
			wantRemaining: 0,
			wantReset:     now.Add(5 * time.Second),
		},
		{
			name:          "garbage ignored",
			headers:       map[string]string{"X-RateLimit-Remaining": "lots"},
			wantRemaining: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimiter()
			r.now = func() time.Time { return now }

			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			r.UpdateFromHeaders(h)

			remaining, resetsAt := r.Status()
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", remaining, tt.wantRemaining)
			}
			if !resetsAt.Equal(tt.wantReset) {
				t.Errorf("resetsAt = %v, want %v", resetsAt, tt.wantReset)
			}
		})
	}
}

func TestRateLimiter_WaitHonorsExhaustedWindow(t *testing.T) {
	r := NewRateLimiter()
	h := http.Header{}
	h.Set("Retry-After", "60")
	r.UpdateFromHeaders(h)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRateLimiter_WaitSpacesRequests(t *testing.T) {
	r := NewRateLimiter()
	r.minInterval = 30 * time.Millisecond

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := r.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("3 requests took %v, want at least 60ms", elapsed)
	}
}

func TestRateLimiter_CountsDownRemaining(t *testing.T) {
	r := NewRateLimiter()
	r.minInterval = 0

	h := http.Header{}
	h.Set("X-RateLimit-Remaining", "2")
	h.Set("X-RateLimit-Reset", "60")
	r.UpdateFromHeaders(h)

	if err := r.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if remaining, _ := r.Status(); remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}
}
