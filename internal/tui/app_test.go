package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"runtracker/internal/analysis"
	"runtracker/internal/config"
	"runtracker/internal/session"
	"runtracker/internal/store"
)

type fakeController struct {
	active    bool
	mode      store.RunMode
	territory string
	speed     float64
	stopped   int
	history   *fakeHistory
}

func (f *fakeController) StartOutdoor(territory string) error {
	f.active, f.mode, f.territory = true, store.ModeOutdoor, territory
	return nil
}

func (f *fakeController) StartTreadmill() error {
	f.active, f.mode, f.territory = true, store.ModeTreadmill, session.TreadmillTerritory
	return nil
}

func (f *fakeController) Stop() *store.RunSummary {
	if !f.active {
		return nil
	}
	f.active = false
	f.stopped++
	run := store.RunSummary{ID: "r1", Territory: f.territory, Mode: f.mode, DistanceKm: 1.5, ElapsedSeconds: 600}
	f.history.Append(run)
	return &run
}

func (f *fakeController) SetTreadmillSpeed(kmh float64) error {
	f.speed = kmh
	return nil
}

func (f *fakeController) Active() bool { return f.active }

func (f *fakeController) Snapshot() session.Snapshot {
	return session.Snapshot{
		Stats:          analysis.RunStats{IsRunning: f.active},
		Mode:           f.mode,
		Territory:      f.territory,
		TreadmillSpeed: f.speed,
	}
}

type fakeHistory struct {
	runs  []store.RunSummary
	loads int
}

func (f *fakeHistory) Append(run store.RunSummary) {
	f.runs = append([]store.RunSummary{run}, f.runs...)
}

func (f *fakeHistory) Runs() []store.RunSummary {
	return append([]store.RunSummary(nil), f.runs...)
}

func (f *fakeHistory) LoadAll(context.Context) []store.RunSummary {
	f.loads++
	return f.Runs()
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends one key to the app and returns its command
func press(t *testing.T, a *App, s string) tea.Cmd {
	t.Helper()
	_, cmd := a.Update(key(s))
	return cmd
}

// deliver runs cmd and hands its message back to the app
func deliver(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		a.Update(msg)
	}
}

func newTestApp() (*App, *fakeController, *fakeHistory) {
	hist := &fakeHistory{}
	ctl := &fakeController{speed: 8, history: hist}
	a := NewApp(ctl, hist, NewUnits(config.DisplayConfig{DistanceUnit: "km", PaceUnit: "min/km"}))
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, ctl, hist
}

func TestAppTreadmillRunIsRecorded(t *testing.T) {
	a, ctl, hist := newTestApp()

	press(t, a, "t")
	if !ctl.active || ctl.mode != store.ModeTreadmill {
		t.Fatalf("treadmill run not started: %+v", ctl)
	}

	press(t, a, "+")
	if ctl.speed != 8.5 {
		t.Errorf("speed = %v, want 8.5", ctl.speed)
	}

	deliver(a, press(t, a, "x"))
	if ctl.stopped != 1 {
		t.Fatalf("stopped = %d, want 1", ctl.stopped)
	}
	if len(hist.runs) != 1 || hist.runs[0].ID != "r1" {
		t.Fatalf("history = %+v", hist.runs)
	}
	if view := a.View(); !strings.Contains(view, "Run saved") || !strings.Contains(view, "1.50 km") {
		t.Errorf("view missing saved run:\n%s", view)
	}
}

func TestAppTerritoryPromptCapturesKeys(t *testing.T) {
	a, ctl, _ := newTestApp()

	press(t, a, "o")
	for _, r := range "Parq" {
		if cmd := press(t, a, string(r)); cmd != nil {
			if _, quit := cmd().(tea.QuitMsg); quit {
				t.Fatal("typing q in the territory prompt quit the app")
			}
		}
	}
	press(t, a, "enter")

	if !ctl.active || ctl.territory != "Parq" {
		t.Fatalf("outdoor run = %+v, want territory Parq", ctl)
	}
}

func TestAppTerritoryPromptCancel(t *testing.T) {
	a, ctl, _ := newTestApp()

	press(t, a, "o")
	press(t, a, "esc")
	if ctl.active {
		t.Fatal("run started after cancelling the prompt")
	}
	if a.run.Editing() {
		t.Fatal("prompt still focused")
	}
}

func TestAppHistoryAndDetail(t *testing.T) {
	a, _, hist := newTestApp()
	hist.runs = []store.RunSummary{
		{ID: "a", Territory: "Riverside", Date: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), DistanceKm: 5, ElapsedSeconds: 1500, AvgPaceMinPerKm: 5},
		{ID: "b", Territory: "Hills", Date: time.Date(2026, 4, 28, 8, 0, 0, 0, time.UTC), DistanceKm: 3, ElapsedSeconds: 1080, AvgPaceMinPerKm: 6},
	}

	deliver(a, press(t, a, "2"))
	if a.screen != ScreenHistory {
		t.Fatalf("screen = %v, want history", a.screen)
	}
	if view := a.View(); !strings.Contains(view, "Riverside") || !strings.Contains(view, "Hills") {
		t.Fatalf("history view missing runs:\n%s", view)
	}

	press(t, a, "j")
	deliver(a, press(t, a, "enter"))
	if a.screen != ScreenDetail {
		t.Fatalf("screen = %v, want detail", a.screen)
	}
	if a.detail.run.ID != "b" {
		t.Errorf("detail run = %q, want b", a.detail.run.ID)
	}

	press(t, a, "esc")
	if a.screen != ScreenHistory {
		t.Errorf("esc from detail went to %v", a.screen)
	}

	deliver(a, press(t, a, "r"))
	if hist.loads != 1 {
		t.Errorf("loads = %d, want 1", hist.loads)
	}
}

func TestAppHelpAndQuit(t *testing.T) {
	a, _, _ := newTestApp()

	press(t, a, "2")
	press(t, a, "?")
	if a.screen != ScreenHelp {
		t.Fatalf("screen = %v, want help", a.screen)
	}
	press(t, a, "esc")
	if a.screen != ScreenHistory {
		t.Errorf("esc from help went to %v", a.screen)
	}

	cmd := press(t, a, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestRunDetailRendersZonesAndChart(t *testing.T) {
	hr := 140
	r := store.RunSummary{
		Territory:      "Park",
		DistanceKm:     1,
		ElapsedSeconds: 360,
		AvgSpeedKmh:    10,
		AvgHeartRate:   &hr,
		HeartRateZones: &store.ZoneDistribution{Zone2: 40, Zone3: 60},
	}
	for i := 0; i < 6; i++ {
		r.Samples = append(r.Samples, store.GeoSample{
			Latitude:        40 + float64(i)*0.001,
			Longitude:       -74,
			TimestampMillis: int64(i) * 10_000,
		})
	}

	m := NewRunDetailModel(r, NewUnits(config.DisplayConfig{}), 100, 60)
	content := m.renderContent()
	for _, want := range []string{"Park", "Heart Rate Zones", "aerobic zone", "60%", "Speed Over Time (km/h)", "140 bpm"} {
		if !strings.Contains(content, want) {
			t.Errorf("detail missing %q", want)
		}
	}
}

func TestAppRecords(t *testing.T) {
	a, _, hist := newTestApp()
	hist.runs = []store.RunSummary{
		{ID: "a", Territory: "Riverside", Date: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), DistanceKm: 5, ElapsedSeconds: 1500, AvgPaceMinPerKm: 5},
	}

	deliver(a, press(t, a, "3"))
	if a.screen != ScreenRecords {
		t.Fatalf("screen = %v, want records", a.screen)
	}
	view := a.View()
	for _, want := range []string{"Personal Records (from 1 runs)", "Longest Run", "Riverside", "5.00 km"} {
		if !strings.Contains(view, want) {
			t.Errorf("records view missing %q", want)
		}
	}
}
