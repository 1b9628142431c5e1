package analysis

import (
	"math/rand"
	"testing"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func TestNextHeartRate(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		elapsed  float64
		r        float64
		expected int
	}{
		{"standing still no noise", 0, 0, 0.5, 70},
		{"standing still lowest noise", 0, 0, 0, 65},
		{"standing still highest noise", 0, 0, 0.999, 75},
		// 70 + 120*0.5 = 130
		{"half speed", 7.5, 0, 0.5, 130},
		// 70 + 120*(8/15) + 20*min(900/1800, 0.3) = 134 + 6 = 140
		{"treadmill pace after 15 minutes", 8, 900, 0.5, 140},
		// 70 + 64 + 20*(180/1800) = 136
		{"treadmill pace after 3 minutes", 8, 180, 0.5, 136},
		// time factor capped at 0.3: 70 + 0 + 6 = 76
		{"time drift capped", 0, 7200, 0.5, 76},
		// 70 + 120 + 6 = 196 -> clamped
		{"clamped to ceiling", 20, 3600, 0.9, 190},
		// 70 + 120*(10/15) = 150, + (0.55-0.5)*10 = 150.5 -> rounds up
		{"rounds half up", 10, 0, 0.55, 151},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextHeartRate(tt.speed, tt.elapsed, tt.r)
			if got != tt.expected {
				t.Errorf("NextHeartRate(%v, %v, %v) = %d, want %d", tt.speed, tt.elapsed, tt.r, got, tt.expected)
			}
		})
	}
}

func TestHeartRateSimulator_UsesRandSource(t *testing.T) {
	sim := NewHeartRateSimulator(fixedRand(0.5))
	if got := sim.Next(7.5, 0); got != 130 {
		t.Errorf("Next(7.5, 0) = %d, want 130", got)
	}
}

func TestHeartRateSimulator_AlwaysInRange(t *testing.T) {
	sim := NewHeartRateSimulator(rand.New(rand.NewSource(1)))

	for speed := 0.0; speed <= 40; speed += 0.5 {
		for elapsed := 0.0; elapsed <= 7200; elapsed += 300 {
			hr := sim.Next(speed, elapsed)
			if hr < MinHeartRate || hr > MaxHeartRate {
				t.Fatalf("Next(%v, %v) = %d, outside [%d, %d]", speed, elapsed, hr, MinHeartRate, MaxHeartRate)
			}
		}
	}
}
