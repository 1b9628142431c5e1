package analysis

import (
	"math"
	"testing"
	"time"
)

func TestPredictTime(t *testing.T) {
	// 20:00 5K extrapolates to about 41:42 over 10K
	got := PredictTime(5, 1200, 10)
	want := int(math.Round(1200 * math.Pow(2, 1.06)))
	if got != want {
		t.Errorf("PredictTime = %d, want %d", got, want)
	}
	if got < 2490 || got > 2510 {
		t.Errorf("PredictTime = %d, want about 2502", got)
	}

	if PredictTime(5, 1200, 5) != 1200 {
		t.Error("same distance should predict the same time")
	}
	for _, bad := range [][3]float64{{0, 1200, 10}, {5, 0, 10}, {5, 1200, 0}} {
		if got := PredictTime(bad[0], int(bad[1]), bad[2]); got != 0 {
			t.Errorf("PredictTime(%v) = %d, want 0", bad, got)
		}
	}
}

func TestConfidence(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		sourceKm  float64
		targetKm  float64
		daysAgo   int
		wantLabel string
	}{
		{"close and recent", 5, 10, 3, "high"},
		{"long extrapolation", 5, 42.195, 3, "low"},
		{"moderate and stale", 3, 10, 100, "medium"},
		{"recent small step", 5, 6, 10, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			achieved := now.AddDate(0, 0, -tt.daysAgo)
			score, label := Confidence(tt.sourceKm, tt.targetKm, achieved, now)
			if label != tt.wantLabel {
				t.Errorf("label = %s (score %.2f), want %s", label, score, tt.wantLabel)
			}
			if score <= 0 || score > 1 {
				t.Errorf("score = %v out of range", score)
			}
		})
	}
}

func TestPredict(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	recs := Records{BestEfforts: []Record{
		{Label: "1K", DistanceKm: 1.0, DurationSeconds: 240, Date: now},
		{Label: "5K", DistanceKm: 5.0, DurationSeconds: 1500, Date: now},
	}}

	preds := Predict(recs, now)
	if len(preds) != 3 {
		t.Fatalf("got %d predictions, want 3 (5K is already covered)", len(preds))
	}
	if preds[0].Label != "10K" {
		t.Errorf("first prediction = %s, want 10K", preds[0].Label)
	}
	for i := 1; i < len(preds); i++ {
		if preds[i].PredictedSeconds <= preds[i-1].PredictedSeconds {
			t.Errorf("%s predicted faster than %s", preds[i].Label, preds[i-1].Label)
		}
	}
	if preds[0].PaceMinPerKm <= 5 {
		t.Errorf("10K pace %.2f should be slower than the 5K source pace", preds[0].PaceMinPerKm)
	}

	if Predict(Records{}, now) != nil {
		t.Error("Predict without efforts should be nil")
	}
}
