package session

import (
	"fmt"
	"log/slog"

	"runtracker/internal/analysis"
	"runtracker/internal/store"
)

// Announcer receives spoken-feedback text
type Announcer interface {
	Announce(text string)
}

// Recorder receives the summary of every finished run with distance
type Recorder interface {
	Record(summary store.RunSummary)
}

// LogAnnouncer writes announcements to a structured logger. When disabled it drops them.
type LogAnnouncer struct {
	Logger  *slog.Logger
	Enabled bool
}

// Announce logs the text at info level
func (a LogAnnouncer) Announce(text string) {
	if !a.Enabled {
		return
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("announcement", "text", text)
}

type nopAnnouncer struct{}

func (nopAnnouncer) Announce(string) {}

type nopRecorder struct{}

func (nopRecorder) Record(store.RunSummary) {}

// Announcement texts
const (
	outdoorStartText   = "Run started. Let's go!"
	treadmillStartText = "Treadmill workout started. Good luck!"
	goalText           = "Goal reached! Three kilometers done!"
)

func zoneChangeText(zone analysis.Zone, bpm int) string {
	return fmt.Sprintf("Entering %s. Heart rate %d.", zone.Name(), bpm)
}

func kilometerText(km int) string {
	return fmt.Sprintf("Kilometer %d complete!", km)
}

func finishText(distanceKm float64, elapsedSeconds int) string {
	return fmt.Sprintf("Run complete! Distance %.2f km. Time %d minutes. Great work!", distanceKm, elapsedSeconds/60)
}
