package analysis

import (
	"reflect"
	"testing"
)

func TestCheckMilestones(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		expected []Milestone
	}{
		{"start", 0, nil},
		{"below first kilometer", 0.999, nil},
		{"first kilometer", 1.0, []Milestone{{Kind: MilestoneKilometer, Km: 1}}},
		{"inside band", 1.009, []Milestone{{Kind: MilestoneKilometer, Km: 1}}},
		{"past band", 1.01, nil},
		{"second kilometer", 2.004, []Milestone{{Kind: MilestoneKilometer, Km: 2}}},
		{"just before goal", 2.99, nil},
		{"goal", 3.005, []Milestone{
			{Kind: MilestoneKilometer, Km: 3},
			{Kind: MilestoneGoal, Km: 3},
		}},
		{"past goal band", 3.02, nil},
		{"tenth kilometer", 10.0, []Milestone{{Kind: MilestoneKilometer, Km: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckMilestones(tt.distance)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("CheckMilestones(%v) = %+v, want %+v", tt.distance, got, tt.expected)
			}
		})
	}
}
