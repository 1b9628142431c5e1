package analysis

import (
	"time"

	"runtracker/internal/store"
)

// minPaceRecordKm is the shortest run that counts for the fastest-pace record
const minPaceRecordKm = 1.0

// Record is one personal best and the run it came from
type Record struct {
	Label           string
	DistanceKm      float64
	DurationSeconds int
	PaceMinPerKm    float64
	RunID           string
	Territory       string
	Date            time.Time
}

// Records are the personal bests across a run history
type Records struct {
	LongestRun  *Record
	FastestPace *Record
	MostTime    *Record
	// BestEfforts holds the fastest effort per distance, in EffortDistances order
	BestEfforts []Record
}

// PersonalRecords scans a history for personal bests.
// Best efforts only come from runs with a GPS track.
func PersonalRecords(runs []store.RunSummary) Records {
	var recs Records
	efforts := make(map[float64]*Record)

	for _, r := range runs {
		if r.DistanceKm <= 0 {
			continue
		}

		if recs.LongestRun == nil || r.DistanceKm > recs.LongestRun.DistanceKm {
			recs.LongestRun = runRecord("Longest Run", r)
		}
		if recs.MostTime == nil || r.ElapsedSeconds > recs.MostTime.DurationSeconds {
			recs.MostTime = runRecord("Longest Time", r)
		}
		if r.DistanceKm >= minPaceRecordKm && r.AvgPaceMinPerKm > 0 &&
			(recs.FastestPace == nil || r.AvgPaceMinPerKm < recs.FastestPace.PaceMinPerKm) {
			recs.FastestPace = runRecord("Fastest Avg Pace", r)
		}

		for _, e := range BestEfforts(r.Samples) {
			if best, ok := efforts[e.TargetKm]; ok && best.DurationSeconds <= e.DurationSeconds {
				continue
			}
			efforts[e.TargetKm] = &Record{
				Label:           EffortLabel(e.TargetKm),
				DistanceKm:      e.DistanceKm,
				DurationSeconds: e.DurationSeconds,
				PaceMinPerKm:    e.PaceMinPerKm(),
				RunID:           r.ID,
				Territory:       r.Territory,
				Date:            r.Date,
			}
		}
	}

	for _, d := range EffortDistances {
		if rec, ok := efforts[d]; ok {
			recs.BestEfforts = append(recs.BestEfforts, *rec)
		}
	}
	return recs
}

func runRecord(label string, r store.RunSummary) *Record {
	return &Record{
		Label:           label,
		DistanceKm:      r.DistanceKm,
		DurationSeconds: r.ElapsedSeconds,
		PaceMinPerKm:    r.AvgPaceMinPerKm,
		RunID:           r.ID,
		Territory:       r.Territory,
		Date:            r.Date,
	}
}
