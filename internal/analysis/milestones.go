package analysis

import "math"

// GoalKm is the session distance goal
const GoalKm = 3.0

// milestoneBand is how far past a threshold a distance may be and still count as crossing it
const milestoneBand = 0.01

// MilestoneKind distinguishes kilometer and goal events
type MilestoneKind int

const (
	MilestoneKilometer MilestoneKind = iota
	MilestoneGoal
)

// Milestone is an advisory distance event
type Milestone struct {
	Kind MilestoneKind
	Km   int
}

// CheckMilestones reports the milestones whose band contains distanceKm.
// A kilometer k fires within [k, k+0.01); the goal fires within [GoalKm, GoalKm+0.01).
func CheckMilestones(distanceKm float64) []Milestone {
	var events []Milestone

	km := int(math.Floor(distanceKm))
	if km > 0 && distanceKm < float64(km)+milestoneBand {
		events = append(events, Milestone{Kind: MilestoneKilometer, Km: km})
	}

	if distanceKm >= GoalKm && distanceKm < GoalKm+milestoneBand {
		events = append(events, Milestone{Kind: MilestoneGoal, Km: int(GoalKm)})
	}

	return events
}
