package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"runtracker/internal/analysis"
	"runtracker/internal/location"
	"runtracker/internal/store"
)

var (
	// ErrNoLocationFeed is returned when an outdoor run is started without a feed
	ErrNoLocationFeed = errors.New("no location feed configured")
	// ErrInvalidSpeed is returned for a negative or non-finite treadmill speed
	ErrInvalidSpeed = errors.New("invalid treadmill speed")
)

// Territory labels used when none is supplied
const (
	UnknownTerritory   = "Unknown territory"
	TreadmillTerritory = "Treadmill"
)

// Config holds session tuning
type Config struct {
	TickInterval      time.Duration
	FixTimeout        time.Duration
	TreadmillSpeedKmh float64
}

// DefaultConfig returns a one second tick, a 10 second fix timeout and 8 km/h treadmill speed
func DefaultConfig() Config {
	return Config{
		TickInterval:      time.Second,
		FixTimeout:        location.DefaultTimeout,
		TreadmillSpeedKmh: 8.0,
	}
}

// HeartRateSource produces the next heart-rate sample
type HeartRateSource interface {
	Next(speedKmh, elapsedSeconds float64) int
}

// Deps are the collaborators of a session. Nil fields get working defaults,
// except Feed, which outdoor runs require.
type Deps struct {
	Clock     clockwork.Clock
	Feed      location.Feed
	Announcer Announcer
	Recorder  Recorder
	Simulator HeartRateSource
	Logger    *slog.Logger
}

// Snapshot is a copy of the live session state for presentation
type Snapshot struct {
	Stats            analysis.RunStats
	Mode             store.RunMode
	Territory        string
	GPSEnabled       bool
	GPSError         string
	HeartRate        int // 0 until the first tick
	Zone             analysis.Zone
	TreadmillSpeed   float64
	LastAnnouncement string
	Samples          []store.GeoSample
	HeartRateHistory []int
}

// Session runs one outdoor or treadmill workout at a time.
// Ticks and location fixes are handled on a single event-loop goroutine.
type Session struct {
	cfg       Config
	clock     clockwork.Clock
	feed      location.Feed
	announcer Announcer
	recorder  Recorder
	hr        HeartRateSource
	logger    *slog.Logger

	// ctl serializes Start, Stop and Close
	ctl    sync.Mutex
	cancel context.CancelFunc
	ticker clockwork.Ticker
	done   chan struct{}

	mu               sync.Mutex
	active           bool
	mode             store.RunMode
	territory        string
	startedAt        time.Time
	stats            analysis.RunStats
	samples          []store.GeoSample
	heartRates       []int
	zones            analysis.ZoneTracker
	gpsEnabled       bool
	gpsError         string
	lastAnnouncement string
	treadmillSpeed   float64
	announcedKm      map[int]bool
	goalAnnounced    bool

	// treadmill distance accrues piecewise so a speed change never shortens it
	legSpeed    float64
	legStart    int
	legDistance float64
}

// New creates an idle session
func New(cfg Config, deps Deps) *Session {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.FixTimeout <= 0 {
		cfg.FixTimeout = def.FixTimeout
	}
	if cfg.TreadmillSpeedKmh <= 0 {
		cfg.TreadmillSpeedKmh = def.TreadmillSpeedKmh
	}

	s := &Session{
		cfg:            cfg,
		clock:          deps.Clock,
		feed:           deps.Feed,
		announcer:      deps.Announcer,
		recorder:       deps.Recorder,
		hr:             deps.Simulator,
		logger:         deps.Logger,
		treadmillSpeed: cfg.TreadmillSpeedKmh,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.announcer == nil {
		s.announcer = nopAnnouncer{}
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.hr == nil {
		seed := uint64(time.Now().UnixNano())
		s.hr = analysis.NewHeartRateSimulator(rand.New(rand.NewPCG(seed, seed>>1)))
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// StartOutdoor begins a GPS-driven run. An empty territory is labelled UnknownTerritory.
func (s *Session) StartOutdoor(territory string) error {
	if territory == "" {
		territory = UnknownTerritory
	}
	return s.start(store.ModeOutdoor, territory)
}

// StartTreadmill begins a run whose distance comes from the treadmill speed
func (s *Session) StartTreadmill() error {
	return s.start(store.ModeTreadmill, TreadmillTerritory)
}

func (s *Session) start(mode store.RunMode, territory string) error {
	if mode == store.ModeOutdoor && s.feed == nil {
		return ErrNoLocationFeed
	}

	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.teardown() {
		s.logger.Info("discarding active run", "mode", s.mode)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var fixes <-chan location.Fix
	if mode == store.ModeOutdoor {
		opts := location.Options{
			HighAccuracy: true,
			Timeout:      s.cfg.FixTimeout,
			MaximumAge:   0,
		}
		ch, err := s.feed.Watch(ctx, opts)
		if err != nil {
			cancel()
			s.markStopped()
			return fmt.Errorf("watching location: %w", err)
		}
		fixes = ch
	}

	s.mu.Lock()
	s.active = true
	s.mode = mode
	s.territory = territory
	s.startedAt = s.clock.Now()
	s.samples = nil
	s.heartRates = nil
	s.zones.Reset()
	s.announcedKm = make(map[int]bool)
	s.goalAnnounced = false
	s.gpsError = ""
	s.gpsEnabled = mode == store.ModeOutdoor
	s.stats = analysis.RunStats{IsRunning: true}
	if mode == store.ModeTreadmill {
		s.stats.SpeedKmh = s.treadmillSpeed
	}
	s.legSpeed = s.treadmillSpeed
	s.legStart = 0
	s.legDistance = 0

	text := outdoorStartText
	if mode == store.ModeTreadmill {
		text = treadmillStartText
	}
	s.lastAnnouncement = text
	s.mu.Unlock()

	s.ticker = s.clock.NewTicker(s.cfg.TickInterval)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.ticker.Chan(), fixes, s.done)

	s.logger.Info("run started", "mode", mode, "territory", territory)
	s.announcer.Announce(text)
	return nil
}

// Stop ends the active run. It returns the recorded summary, or nil when no run
// was active or no distance was covered. Calling Stop again is a no-op.
func (s *Session) Stop() *store.RunSummary {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if !s.teardown() {
		return nil
	}

	s.mu.Lock()
	s.resetLocked()
	if s.stats.DistanceKm <= 0 {
		s.mu.Unlock()
		s.logger.Info("run stopped without distance", "mode", s.mode)
		return nil
	}

	text := finishText(s.stats.DistanceKm, s.stats.ElapsedSeconds)
	s.lastAnnouncement = text
	in := analysis.SummaryInput{
		Territory:  s.territory,
		Mode:       s.mode,
		Stats:      s.stats,
		Samples:    s.samples,
		HeartRates: append([]int(nil), s.heartRates...),
		FinishedAt: s.clock.Now(),
	}
	s.mu.Unlock()

	s.announcer.Announce(text)

	summary := analysis.Summarize(in)
	s.logger.Info("run finished",
		"id", summary.ID,
		"mode", summary.Mode,
		"distance_km", summary.DistanceKm,
		"elapsed_s", summary.ElapsedSeconds)
	s.recorder.Record(summary)
	return &summary
}

// Close tears down any active run without producing a summary
func (s *Session) Close() {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.teardown() {
		s.markStopped()
	}
}

// SetTreadmillSpeed changes the treadmill speed. The active treadmill run picks it
// up at once for live speed and from the next tick for distance.
func (s *Session) SetTreadmillSpeed(kmh float64) error {
	if kmh < 0 || math.IsNaN(kmh) || math.IsInf(kmh, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, kmh)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.treadmillSpeed = kmh
	if s.active && s.mode == store.ModeTreadmill {
		s.stats.SpeedKmh = kmh
	}
	return nil
}

// Active reports whether a run is in progress
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Snapshot copies the live state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Stats:            copyStats(s.stats),
		Mode:             s.mode,
		Territory:        s.territory,
		GPSEnabled:       s.gpsEnabled,
		GPSError:         s.gpsError,
		Zone:             s.zones.Current(),
		TreadmillSpeed:   s.treadmillSpeed,
		LastAnnouncement: s.lastAnnouncement,
		Samples:          append([]store.GeoSample(nil), s.samples...),
		HeartRateHistory: append([]int(nil), s.heartRates...),
	}
	if s.stats.HeartRate != nil {
		snap.HeartRate = *s.stats.HeartRate
	}
	return snap
}

func (s *Session) loop(ctx context.Context, ticks <-chan time.Time, fixes <-chan location.Fix, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.announce(s.tick(s.clock.Now()))
		case fix, ok := <-fixes:
			if !ok {
				fixes = nil
				continue
			}
			s.announce(s.handleFix(fix))
		}
	}
}

// tick advances elapsed time, samples heart rate and, on a treadmill, distance.
// It returns the announcements to make.
func (s *Session) tick(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil
	}

	elapsed := int(now.Sub(s.startedAt) / time.Second)
	if elapsed < s.stats.ElapsedSeconds {
		elapsed = s.stats.ElapsedSeconds
	}
	prevElapsed := s.stats.ElapsedSeconds
	s.stats.ElapsedSeconds = elapsed

	var texts []string

	speed := s.stats.SpeedKmh
	if s.mode == store.ModeTreadmill {
		speed = s.treadmillSpeed
		if speed != s.legSpeed {
			s.legDistance = s.stats.DistanceKm
			s.legStart = prevElapsed
			s.legSpeed = speed
		}
		s.stats.DistanceKm = s.legDistance + speed*float64(elapsed-s.legStart)/3600
		s.stats.SpeedKmh = speed
	}

	hr := s.hr.Next(speed, float64(elapsed))
	s.heartRates = append(s.heartRates, hr)
	s.stats.HeartRate = &hr
	if zone, changed := s.zones.Observe(hr); changed {
		texts = append(texts, zoneChangeText(zone, hr))
	}

	pace := analysis.PaceMinPerKm(s.stats.SpeedKmh)
	calories := analysis.Calories(s.stats.DistanceKm)
	s.stats.AvgPaceMinPerKm = &pace
	s.stats.Calories = &calories

	if s.mode == store.ModeTreadmill {
		texts = append(texts, s.milestonesLocked(s.stats.DistanceKm)...)
	}

	s.recordLocked(texts)
	return texts
}

// handleFix ingests one location delivery
func (s *Session) handleFix(fix location.Fix) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil
	}

	if fix.Err != nil {
		s.gpsEnabled = false
		s.gpsError = fix.Err.Advisory()
		s.logger.Warn("location error", "code", fix.Err.Code, "error", fix.Err)
		return nil
	}

	s.gpsEnabled = true
	s.gpsError = ""
	s.samples = append(s.samples, fix.Sample)

	n := len(s.samples)
	if n < 2 {
		return nil
	}

	s.stats.DistanceKm = analysis.TotalDistance(s.samples)
	s.stats.SpeedKmh = analysis.SegmentSpeed(s.samples[n-2], s.samples[n-1])

	texts := s.milestonesLocked(s.stats.DistanceKm)
	s.recordLocked(texts)
	return texts
}

// milestonesLocked announces each kilometer and the goal at most once per run
func (s *Session) milestonesLocked(distanceKm float64) []string {
	var texts []string
	for _, m := range analysis.CheckMilestones(distanceKm) {
		switch m.Kind {
		case analysis.MilestoneKilometer:
			if s.announcedKm[m.Km] {
				continue
			}
			s.announcedKm[m.Km] = true
			texts = append(texts, kilometerText(m.Km))
		case analysis.MilestoneGoal:
			if s.goalAnnounced {
				continue
			}
			s.goalAnnounced = true
			texts = append(texts, goalText)
		}
	}
	return texts
}

func (s *Session) recordLocked(texts []string) {
	if len(texts) > 0 {
		s.lastAnnouncement = texts[len(texts)-1]
	}
}

// announce runs outside the state lock so an announcer may read a snapshot
func (s *Session) announce(texts []string) {
	for _, t := range texts {
		s.announcer.Announce(t)
	}
}

// teardown cancels the loop and waits for it to exit. Caller holds ctl.
// Returns false when nothing was running.
func (s *Session) teardown() bool {
	if s.cancel == nil {
		return false
	}

	s.cancel()
	s.ticker.Stop()
	<-s.done

	s.cancel = nil
	s.ticker = nil
	s.done = nil
	return true
}

func (s *Session) markStopped() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
}

func (s *Session) resetLocked() {
	s.active = false
	s.stats.IsRunning = false
	s.gpsEnabled = false
	s.zones.Reset()
}

func copyStats(st analysis.RunStats) analysis.RunStats {
	if st.HeartRate != nil {
		v := *st.HeartRate
		st.HeartRate = &v
	}
	if st.AvgPaceMinPerKm != nil {
		v := *st.AvgPaceMinPerKm
		st.AvgPaceMinPerKm = &v
	}
	if st.Calories != nil {
		v := *st.Calories
		st.Calories = &v
	}
	return st
}
