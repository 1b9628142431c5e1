package analysis

import "runtracker/internal/store"

// Zone is a heart-rate intensity band from 1 (warm-up) to 5 (maximum).
// ZoneNone means no zone has been observed yet.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneWarmUp
	ZoneLight
	ZoneAerobic
	ZoneAnaerobic
	ZoneMaximum
)

// Upper bounds (exclusive) for zones 1-4; anything above is zone 5
const (
	zone1Ceiling = 114
	zone2Ceiling = 133
	zone3Ceiling = 152
	zone4Ceiling = 171
)

// ZoneOf classifies a heart rate in bpm
func ZoneOf(bpm int) Zone {
	switch {
	case bpm < zone1Ceiling:
		return ZoneWarmUp
	case bpm < zone2Ceiling:
		return ZoneLight
	case bpm < zone3Ceiling:
		return ZoneAerobic
	case bpm < zone4Ceiling:
		return ZoneAnaerobic
	default:
		return ZoneMaximum
	}
}

var zoneNames = [...]string{
	ZoneWarmUp:    "warm-up",
	ZoneLight:     "light zone",
	ZoneAerobic:   "aerobic zone",
	ZoneAnaerobic: "anaerobic zone",
	ZoneMaximum:   "maximum zone",
}

// Name returns the announcement label for the zone
func (z Zone) Name() string {
	if z < ZoneWarmUp || z > ZoneMaximum {
		return "unknown zone"
	}
	return zoneNames[z]
}

// ZoneTracker remembers the last observed zone to detect transitions
type ZoneTracker struct {
	last Zone
}

// Observe classifies bpm and reports whether the zone changed since the previous
// observation. The first observation after construction or Reset never reports a change.
func (t *ZoneTracker) Observe(bpm int) (Zone, bool) {
	zone := ZoneOf(bpm)
	changed := t.last != ZoneNone && zone != t.last
	t.last = zone
	return zone, changed
}

// Current returns the last observed zone, or ZoneNone
func (t *ZoneTracker) Current() Zone {
	return t.last
}

// Reset forgets the last observed zone
func (t *ZoneTracker) Reset() {
	t.last = ZoneNone
}

// ZoneDistributionOf returns the rounded percentage of samples in each zone.
// Returns nil for an empty history.
func ZoneDistributionOf(heartRates []int) *store.ZoneDistribution {
	if len(heartRates) == 0 {
		return nil
	}

	var counts [6]int
	for _, hr := range heartRates {
		counts[ZoneOf(hr)]++
	}

	total := float64(len(heartRates))
	pct := func(z Zone) int {
		return roundInt(float64(counts[z]) / total * 100)
	}

	return &store.ZoneDistribution{
		Zone1: pct(ZoneWarmUp),
		Zone2: pct(ZoneLight),
		Zone3: pct(ZoneAerobic),
		Zone4: pct(ZoneAnaerobic),
		Zone5: pct(ZoneMaximum),
	}
}
