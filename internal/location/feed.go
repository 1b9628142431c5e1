package location

import (
	"context"
	"fmt"
	"time"

	"runtracker/internal/store"
)

// DefaultTimeout is how long a feed waits for a fix before reporting a timeout
const DefaultTimeout = 10 * time.Second

// Options configure a location subscription
type Options struct {
	HighAccuracy bool
	// Timeout is the fix-acquisition timeout; zero disables it
	Timeout time.Duration
	// MaximumAge is how old a cached fix may be; zero means never reuse a cached fix
	MaximumAge time.Duration
}

// DefaultOptions returns high accuracy, a 10 second timeout and no cached fixes
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      DefaultTimeout,
		MaximumAge:   0,
	}
}

// Fix is one delivery from a feed: either a sample or an error
type Fix struct {
	Sample store.GeoSample
	Err    *GPSError
}

// Feed is a push-based source of position fixes.
// Watch delivers fixes until ctx is cancelled, then closes the channel.
type Feed interface {
	Watch(ctx context.Context, opts Options) (<-chan Fix, error)
}

// ErrorCode classifies location failures
type ErrorCode int

const (
	PermissionDenied ErrorCode = iota + 1
	PositionUnavailable
	Timeout
)

func (c ErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission-denied"
	case PositionUnavailable:
		return "unavailable"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// GPSError is a recoverable location failure
type GPSError struct {
	Code   ErrorCode
	Detail string
}

func (e *GPSError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gps %s: %s", e.Code, e.Detail)
	}
	return "gps " + e.Code.String()
}

// Advisory returns the user-facing message for the error
func (e *GPSError) Advisory() string {
	switch e.Code {
	case PermissionDenied:
		return "GPS access denied. Allow location access to track your run."
	case PositionUnavailable:
		return "GPS unavailable. Check your device settings."
	default:
		return "GPS timeout. Trying again."
	}
}
