package analysis

import "math"

// Simulated heart-rate model parameters
const (
	BaseHeartRate    = 70
	MaxHeartRate     = 190
	MinHeartRate     = 60
	speedForMaxKmh   = 15.0
	driftSeconds     = 1800.0
	maxDriftFraction = 0.3
	driftBpm         = 20.0
	noiseBpm         = 10.0
)

// RandSource supplies uniform values in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// HeartRateSimulator produces plausible heart-rate samples from speed and elapsed time.
// There is no sensor integration; this stands in for telemetry.
type HeartRateSimulator struct {
	rng RandSource
}

// NewHeartRateSimulator creates a simulator drawing noise from rng
func NewHeartRateSimulator(rng RandSource) *HeartRateSimulator {
	return &HeartRateSimulator{rng: rng}
}

// Next returns the next heart-rate sample in bpm, always within [MinHeartRate, MaxHeartRate]
func (s *HeartRateSimulator) Next(speedKmh, elapsedSeconds float64) int {
	return NextHeartRate(speedKmh, elapsedSeconds, s.rng.Float64())
}

// NextHeartRate is the deterministic core of the simulator. r is a uniform value in [0, 1)
// mapped to noise in [-5, +5) bpm.
func NextHeartRate(speedKmh, elapsedSeconds, r float64) int {
	speedFactor := math.Min(speedKmh/speedForMaxKmh, 1)
	timeFactor := math.Min(elapsedSeconds/driftSeconds, maxDriftFraction)
	target := BaseHeartRate + (MaxHeartRate-BaseHeartRate)*speedFactor + driftBpm*timeFactor
	noise := (r - 0.5) * noiseBpm

	hr := math.Max(MinHeartRate, math.Min(MaxHeartRate, target+noise))
	return roundInt(hr)
}

// roundInt rounds half up, matching the rounding used for every reported statistic
func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}
