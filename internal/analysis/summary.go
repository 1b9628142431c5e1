package analysis

import (
	"time"

	"github.com/google/uuid"

	"runtracker/internal/geo"
	"runtracker/internal/store"
)

// CaloriesPerKm is the fixed, non-personalized energy model
const CaloriesPerKm = 65.0

// RunStats are the live statistics of a session
type RunStats struct {
	DistanceKm      float64
	SpeedKmh        float64
	ElapsedSeconds  int
	IsRunning       bool
	HeartRate       *int     // nullable until the first tick
	AvgPaceMinPerKm *float64 // nullable until the first tick
	Calories        *int     // nullable until the first tick
}

// SummaryInput is everything a finished session hands to Summarize
type SummaryInput struct {
	Territory  string
	Mode       store.RunMode
	Stats      RunStats
	Samples    []store.GeoSample
	HeartRates []int
	FinishedAt time.Time
}

// Summarize derives the persisted record of a finished session
func Summarize(in SummaryInput) store.RunSummary {
	avgSpeed := AverageSpeed(in.Stats.DistanceKm, in.Stats.ElapsedSeconds)

	maxSpeed := avgSpeed
	if in.Mode != store.ModeTreadmill && len(in.Samples) >= 2 {
		maxSpeed = 0
		for _, s := range SegmentSpeeds(in.Samples) {
			if s > maxSpeed {
				maxSpeed = s
			}
		}
	}

	var avgHR *int
	if len(in.HeartRates) > 0 {
		sum := 0
		for _, hr := range in.HeartRates {
			sum += hr
		}
		v := roundInt(float64(sum) / float64(len(in.HeartRates)))
		avgHR = &v
	}

	samples := make([]store.GeoSample, len(in.Samples))
	copy(samples, in.Samples)

	return store.RunSummary{
		ID:              uuid.NewString(),
		Date:            in.FinishedAt.UTC(),
		Territory:       in.Territory,
		Mode:            in.Mode,
		DistanceKm:      in.Stats.DistanceKm,
		ElapsedSeconds:  in.Stats.ElapsedSeconds,
		AvgSpeedKmh:     avgSpeed,
		AvgPaceMinPerKm: PaceMinPerKm(avgSpeed),
		MaxSpeedKmh:     maxSpeed,
		Calories:        Calories(in.Stats.DistanceKm),
		AvgHeartRate:    avgHR,
		HeartRateZones:  ZoneDistributionOf(in.HeartRates),
		Samples:         samples,
	}
}

// AverageSpeed returns km/h over the whole session, or 0 without distance or time
func AverageSpeed(distanceKm float64, elapsedSeconds int) float64 {
	if distanceKm <= 0 || elapsedSeconds <= 0 {
		return 0
	}
	return distanceKm / (float64(elapsedSeconds) / 3600)
}

// PaceMinPerKm converts a speed in km/h to minutes per km, or 0 when not moving
func PaceMinPerKm(speedKmh float64) float64 {
	if speedKmh <= 0 {
		return 0
	}
	return 60 / speedKmh
}

// Calories estimates energy burned for a distance
func Calories(distanceKm float64) int {
	return roundInt(distanceKm * CaloriesPerKm)
}

// SegmentSpeeds returns the speed in km/h between each consecutive pair of samples.
// A segment with zero or negative elapsed time has speed 0.
func SegmentSpeeds(samples []store.GeoSample) []float64 {
	if len(samples) < 2 {
		return nil
	}

	speeds := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		speeds = append(speeds, SegmentSpeed(samples[i-1], samples[i]))
	}
	return speeds
}

// SegmentSpeed returns the speed in km/h travelling from prev to curr
func SegmentSpeed(prev, curr store.GeoSample) float64 {
	hours := float64(curr.TimestampMillis-prev.TimestampMillis) / 1000 / 3600
	if hours <= 0 {
		return 0
	}
	return SegmentDistance(prev, curr) / hours
}

// SegmentDistance returns the haversine distance in km between two samples
func SegmentDistance(prev, curr store.GeoSample) float64 {
	return geo.DistanceKm(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
}

// TotalDistance sums the pairwise distances over the whole sample sequence
func TotalDistance(samples []store.GeoSample) float64 {
	var total float64
	for i := 1; i < len(samples); i++ {
		total += SegmentDistance(samples[i-1], samples[i])
	}
	return total
}
