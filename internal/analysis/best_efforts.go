package analysis

import (
	"math"

	"runtracker/internal/store"
)

// BestEffort is the fastest stretch of a given distance within one run
type BestEffort struct {
	TargetKm        float64 // the standard distance searched for
	DistanceKm      float64 // the distance actually covered, at least TargetKm
	DurationSeconds int
	StartOffset     int // seconds from the first sample
	EndOffset       int
}

// PaceMinPerKm returns the pace of the effort, or 0 for an empty effort
func (e BestEffort) PaceMinPerKm() float64 {
	if e.DistanceKm <= 0 || e.DurationSeconds <= 0 {
		return 0
	}
	return float64(e.DurationSeconds) / 60 / e.DistanceKm
}

// Standard effort distances in km
const (
	Effort400m  = 0.4
	Effort1K    = 1.0
	Effort1Mile = 1.609344
	Effort5K    = 5.0
	Effort10K   = 10.0

	// MinSamplesForEffort is the fewest GPS samples an effort is searched in
	MinSamplesForEffort = 3
)

// EffortDistances are the distances searched for best efforts, shortest first
var EffortDistances = []float64{Effort400m, Effort1K, Effort1Mile, GoalKm, Effort5K, Effort10K}

// EffortLabel names an effort distance for display
func EffortLabel(km float64) string {
	switch km {
	case Effort400m:
		return "400m"
	case Effort1K:
		return "1K"
	case Effort1Mile:
		return "1 Mile"
	case GoalKm:
		return "3K"
	case Effort5K:
		return "5K"
	case Effort10K:
		return "10K"
	}
	return ""
}

type trackPoint struct {
	km     float64 // cumulative distance
	offset int     // seconds since the first sample
}

// cumulative converts samples into cumulative distance and time offsets
func cumulative(samples []store.GeoSample) []trackPoint {
	if len(samples) == 0 {
		return nil
	}
	points := make([]trackPoint, len(samples))
	start := samples[0].TimestampMillis
	for i, s := range samples {
		points[i].offset = int((s.TimestampMillis - start) / 1000)
		if i > 0 {
			points[i].km = points[i-1].km + SegmentDistance(samples[i-1], s)
		}
	}
	return points
}

// FindBestEffort finds the fastest stretch covering at least targetKm.
// Returns nil if the run is shorter than targetKm or has too few samples.
func FindBestEffort(samples []store.GeoSample, targetKm float64) *BestEffort {
	if len(samples) < MinSamplesForEffort || targetKm <= 0 {
		return nil
	}
	return bestEffort(cumulative(samples), targetKm)
}

func bestEffort(points []trackPoint, targetKm float64) *BestEffort {
	if len(points) == 0 || points[len(points)-1].km < targetKm {
		return nil
	}

	var best *BestEffort
	bestDuration := math.MaxInt

	// Two pointers: right only moves forward as left advances
	right := 0
	for left := 0; left < len(points); left++ {
		if right <= left {
			right = left + 1
		}
		for right < len(points) && points[right].km-points[left].km < targetKm {
			right++
		}
		if right == len(points) {
			break
		}

		duration := points[right].offset - points[left].offset
		if duration <= 0 || duration >= bestDuration {
			continue
		}
		bestDuration = duration
		best = &BestEffort{
			TargetKm:        targetKm,
			DistanceKm:      points[right].km - points[left].km,
			DurationSeconds: duration,
			StartOffset:     points[left].offset,
			EndOffset:       points[right].offset,
		}
	}
	return best
}

// BestEfforts returns the best effort for every standard distance the run covers
func BestEfforts(samples []store.GeoSample) []BestEffort {
	if len(samples) < MinSamplesForEffort {
		return nil
	}
	points := cumulative(samples)

	var efforts []BestEffort
	for _, d := range EffortDistances {
		e := bestEffort(points, d)
		if e == nil {
			break // longer distances can't fit either
		}
		efforts = append(efforts, *e)
	}
	return efforts
}

// Split is one kilometre of a run. The last split may be partial.
type Split struct {
	Km              int
	DistanceKm      float64
	DurationSeconds int
}

// PaceMinPerKm returns the pace of the split, or 0 for an empty split
func (s Split) PaceMinPerKm() float64 {
	if s.DistanceKm <= 0 || s.DurationSeconds <= 0 {
		return 0
	}
	return float64(s.DurationSeconds) / 60 / s.DistanceKm
}

// Splits divides the GPS track into kilometre splits at the first sample past each boundary.
// A split that jumps several boundaries is numbered by the last kilometre it completes.
func Splits(samples []store.GeoSample) []Split {
	points := cumulative(samples)
	if len(points) < 2 {
		return nil
	}

	var splits []Split
	startIdx := 0
	next := 1.0
	for i := 1; i < len(points); i++ {
		if points[i].km >= next {
			splits = append(splits, splitBetween(points, startIdx, i, int(math.Floor(points[i].km))))
			startIdx = i
			next = math.Floor(points[i].km) + 1
		}
	}

	// Partial final split
	if last := len(points) - 1; last > startIdx && points[last].km > points[startIdx].km {
		splits = append(splits, splitBetween(points, startIdx, last, int(next)))
	}
	return splits
}

func splitBetween(points []trackPoint, from, to, km int) Split {
	return Split{
		Km:              km,
		DistanceKm:      points[to].km - points[from].km,
		DurationSeconds: points[to].offset - points[from].offset,
	}
}
