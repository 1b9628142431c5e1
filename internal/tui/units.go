package tui

import (
	"fmt"
	"math"

	"runtracker/internal/config"
)

const kmPerMile = 1.609344

// Units formats run figures in the user's preferred units.
// Run records always hold kilometres, km/h and min/km.
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit == "mi"
}

// FormatDistance formats a distance in km with two decimals and a unit label
func (u Units) FormatDistance(km float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.2f mi", km/kmPerMile)
	}
	return fmt.Sprintf("%.2f km", km)
}

// FormatSpeed formats a speed given in km/h
func (u Units) FormatSpeed(kmh float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f mph", kmh/kmPerMile)
	}
	return fmt.Sprintf("%.1f km/h", kmh)
}

// FormatPace formats a pace given in min/km as m:ss in the preferred pace unit.
// Zero or invalid paces render as "-".
func (u Units) FormatPace(minPerKm float64) string {
	if minPerKm <= 0 || math.IsInf(minPerKm, 0) || math.IsNaN(minPerKm) {
		return "-"
	}
	if u.cfg.PaceUnit == "min/mi" {
		minPerKm *= kmPerMile
	}
	total := int(math.Round(minPerKm * 60))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatPaceWithUnit formats pace with the unit label
func (u Units) FormatPaceWithUnit(minPerKm float64) string {
	pace := u.FormatPace(minPerKm)
	if pace == "-" {
		return pace
	}
	return pace + " " + u.PaceLabel()
}

// PaceLabel returns the pace unit label ("min/mi" or "min/km")
func (u Units) PaceLabel() string {
	if u.cfg.PaceUnit == "min/mi" {
		return "min/mi"
	}
	return "min/km"
}

// ConvertSpeeds converts km/h series for charting in the preferred unit
func (u Units) ConvertSpeeds(kmh []float64) []float64 {
	if !u.IsMiles() {
		return kmh
	}
	out := make([]float64, len(kmh))
	for i, v := range kmh {
		out[i] = v / kmPerMile
	}
	return out
}

// formatDuration renders seconds as h:mm:ss or m:ss
func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
