package location

import (
	"context"
	"time"

	"runtracker/internal/store"
)

// Replay is a Feed that plays back recorded samples in real time.
// Sample timestamps are shifted so the first fix is stamped with the time Watch was called.
type Replay struct {
	samples []store.GeoSample
	speedup float64
	now     func() time.Time
}

// NewReplay creates a replay feed. speedup > 1 compresses the wall-clock gaps between
// fixes; the timestamps delivered keep the recorded spacing.
func NewReplay(samples []store.GeoSample, speedup float64) *Replay {
	if speedup <= 0 {
		speedup = 1
	}
	return &Replay{
		samples: samples,
		speedup: speedup,
		now:     time.Now,
	}
}

// Watch starts playback
func (r *Replay) Watch(ctx context.Context, opts Options) (<-chan Fix, error) {
	out := make(chan Fix)
	start := r.now()

	go func() {
		defer close(out)

		if len(r.samples) == 0 {
			send(ctx, out, Fix{Err: &GPSError{Code: PositionUnavailable, Detail: "no recorded track"}})
			<-ctx.Done()
			return
		}

		origin := r.samples[0].TimestampMillis
		for _, s := range r.samples {
			offset := time.Duration(s.TimestampMillis-origin) * time.Millisecond
			due := start.Add(time.Duration(float64(offset) / r.speedup))

			if !r.waitUntil(ctx, out, due, opts.Timeout) {
				return
			}

			s.TimestampMillis = start.UnixMilli() + (s.TimestampMillis - origin)
			if !send(ctx, out, Fix{Sample: s}) {
				return
			}
		}

		// Track exhausted: the receiver keeps waiting like a stationary device would
		// and sees a timeout every acquisition window.
		r.waitUntil(ctx, out, time.Time{}, opts.Timeout)
	}()

	return out, nil
}

// waitUntil blocks until due, emitting a timeout error each time the acquisition
// window elapses first. A zero due waits until ctx is done. Returns false when ctx ends.
func (r *Replay) waitUntil(ctx context.Context, out chan<- Fix, due time.Time, timeout time.Duration) bool {
	for {
		var dueC, timeoutC <-chan time.Time
		var dueTimer, timeoutTimer *time.Timer

		if !due.IsZero() {
			d := due.Sub(r.now())
			if d <= 0 {
				return true
			}
			dueTimer = time.NewTimer(d)
			dueC = dueTimer.C
		}
		if timeout > 0 {
			timeoutTimer = time.NewTimer(timeout)
			timeoutC = timeoutTimer.C
		}

		stop := func() {
			if dueTimer != nil {
				dueTimer.Stop()
			}
			if timeoutTimer != nil {
				timeoutTimer.Stop()
			}
		}

		select {
		case <-ctx.Done():
			stop()
			return false
		case <-dueC:
			stop()
			return true
		case <-timeoutC:
			stop()
			if !send(ctx, out, Fix{Err: &GPSError{Code: Timeout}}) {
				return false
			}
		}
	}
}

func send(ctx context.Context, out chan<- Fix, f Fix) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
