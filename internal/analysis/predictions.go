package analysis

import (
	"math"
	"time"
)

// riegelExponent is the fatigue factor in T2 = T1 * (D2/D1)^1.06
const riegelExponent = 1.06

// PredictionTarget is a race distance to predict
type PredictionTarget struct {
	Label      string
	DistanceKm float64
}

// PredictionTargets are the standard prediction distances
var PredictionTargets = []PredictionTarget{
	{"5K", Effort5K},
	{"10K", Effort10K},
	{"Half Marathon", 21.0975},
	{"Marathon", 42.195},
}

// RacePrediction is a predicted finish time for one target
type RacePrediction struct {
	Label            string
	DistanceKm       float64
	PredictedSeconds int
	PaceMinPerKm     float64
	Confidence       string  // "high", "medium", "low"
	ConfidenceScore  float64 // 0.0 to 1.0
}

// PredictTime extrapolates a performance over fromKm to toKm
func PredictTime(fromKm float64, fromSeconds int, toKm float64) int {
	if fromKm <= 0 || fromSeconds <= 0 || toKm <= 0 {
		return 0
	}
	return int(math.Round(float64(fromSeconds) * math.Pow(toKm/fromKm, riegelExponent)))
}

// Confidence scores a prediction from the extrapolation ratio and how old the source is
func Confidence(sourceKm, targetKm float64, achieved, now time.Time) (float64, string) {
	score := 1.0

	ratio := targetKm / sourceKm
	if ratio < 1 {
		ratio = 1 / ratio
	}
	switch {
	case ratio > 8:
		score *= 0.6
	case ratio > 4:
		score *= 0.7 // e.g. 5K to marathon
	case ratio > 2:
		score *= 0.85
	case ratio > 1.5:
		score *= 0.95
	}

	days := now.Sub(achieved).Hours() / 24
	switch {
	case days > 180:
		score *= 0.75
	case days > 90:
		score *= 0.9
	case days > 30:
		score *= 0.95
	}

	switch {
	case score >= 0.85:
		return score, "high"
	case score >= 0.65:
		return score, "medium"
	default:
		return score, "low"
	}
}

// Predict uses the longest best effort as the source for every target it doesn't already cover.
// Returns nil without best efforts.
func Predict(recs Records, now time.Time) []RacePrediction {
	if len(recs.BestEfforts) == 0 {
		return nil
	}
	src := recs.BestEfforts[len(recs.BestEfforts)-1]

	var predictions []RacePrediction
	for _, target := range PredictionTargets {
		if target.DistanceKm <= src.DistanceKm {
			continue
		}
		seconds := PredictTime(src.DistanceKm, src.DurationSeconds, target.DistanceKm)
		score, label := Confidence(src.DistanceKm, target.DistanceKm, src.Date, now)
		predictions = append(predictions, RacePrediction{
			Label:            target.Label,
			DistanceKm:       target.DistanceKm,
			PredictedSeconds: seconds,
			PaceMinPerKm:     float64(seconds) / 60 / target.DistanceKm,
			Confidence:       label,
			ConfidenceScore:  math.Round(score*100) / 100,
		})
	}
	return predictions
}
