package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// dateLayout keeps stored dates fixed-width so they sort lexically
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// SaveRun inserts or replaces a run for the given owner
func (db *DB) SaveRun(owner string, r *RunSummary) error {
	samples := r.Samples
	if samples == nil {
		samples = []GeoSample{}
	}
	samplesJSON, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}

	mode := r.Mode
	if mode == "" {
		mode = ModeOutdoor
	}

	var zones [5]*int
	if r.HeartRateZones != nil {
		for i := range zones {
			v := r.HeartRateZones.Percent(i + 1)
			zones[i] = &v
		}
	}

	_, err = db.Exec(`
		INSERT INTO runs (
			id, owner, date, territory, mode, distance_km, elapsed_seconds,
			avg_speed_kmh, avg_pace, max_speed_kmh, calories, avg_heart_rate,
			heart_rate_zone1, heart_rate_zone2, heart_rate_zone3, heart_rate_zone4, heart_rate_zone5,
			samples
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			date = excluded.date,
			territory = excluded.territory,
			mode = excluded.mode,
			distance_km = excluded.distance_km,
			elapsed_seconds = excluded.elapsed_seconds,
			avg_speed_kmh = excluded.avg_speed_kmh,
			avg_pace = excluded.avg_pace,
			max_speed_kmh = excluded.max_speed_kmh,
			calories = excluded.calories,
			avg_heart_rate = excluded.avg_heart_rate,
			heart_rate_zone1 = excluded.heart_rate_zone1,
			heart_rate_zone2 = excluded.heart_rate_zone2,
			heart_rate_zone3 = excluded.heart_rate_zone3,
			heart_rate_zone4 = excluded.heart_rate_zone4,
			heart_rate_zone5 = excluded.heart_rate_zone5,
			samples = excluded.samples
	`,
		r.ID, owner, r.Date.UTC().Format(dateLayout), r.Territory, string(mode),
		r.DistanceKm, r.ElapsedSeconds, r.AvgSpeedKmh, r.AvgPaceMinPerKm, r.MaxSpeedKmh,
		r.Calories, r.AvgHeartRate,
		zones[0], zones[1], zones[2], zones[3], zones[4],
		string(samplesJSON),
	)
	return err
}

// GetRun retrieves a single run by ID
func (db *DB) GetRun(owner, id string) (*RunSummary, error) {
	row := db.QueryRow(selectRuns+`
		WHERE owner = ? AND id = ?
	`, owner, id)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns up to limit runs for owner, newest first.
// A row that cannot be decoded fails the whole listing with ErrMalformedRecord.
func (db *DB) ListRuns(owner string, limit int) ([]RunSummary, error) {
	rows, err := db.Query(selectRuns+`
		WHERE owner = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ?
	`, owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}

	return runs, rows.Err()
}

// CountRuns returns the number of runs stored for owner
func (db *DB) CountRuns(owner string) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM runs WHERE owner = ?", owner).Scan(&count)
	return count, err
}

// PruneRuns deletes all but the newest keep runs for owner
func (db *DB) PruneRuns(owner string, keep int) (int64, error) {
	result, err := db.Exec(`
		DELETE FROM runs
		WHERE owner = ? AND id NOT IN (
			SELECT id FROM runs
			WHERE owner = ?
			ORDER BY date DESC, created_at DESC
			LIMIT ?
		)
	`, owner, owner, keep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const selectRuns = `
		SELECT id, date, territory, mode, distance_km, elapsed_seconds,
			avg_speed_kmh, avg_pace, max_speed_kmh, calories, avg_heart_rate,
			heart_rate_zone1, heart_rate_zone2, heart_rate_zone3, heart_rate_zone4, heart_rate_zone5,
			samples
		FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunSummary, error) {
	var r RunSummary
	var date, mode, samples string
	var avgHR sql.NullInt64
	var z [5]sql.NullInt64

	err := row.Scan(
		&r.ID, &date, &r.Territory, &mode, &r.DistanceKm, &r.ElapsedSeconds,
		&r.AvgSpeedKmh, &r.AvgPaceMinPerKm, &r.MaxSpeedKmh, &r.Calories, &avgHR,
		&z[0], &z[1], &z[2], &z[3], &z[4],
		&samples,
	)
	if err != nil {
		return nil, err
	}

	r.Date, err = time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("run %s: parsing date %q: %w", r.ID, date, ErrMalformedRecord)
	}
	r.Mode = RunMode(mode)

	if avgHR.Valid {
		hr := int(avgHR.Int64)
		r.AvgHeartRate = &hr
	}
	if z[0].Valid {
		r.HeartRateZones = &ZoneDistribution{
			Zone1: int(z[0].Int64),
			Zone2: int(z[1].Int64),
			Zone3: int(z[2].Int64),
			Zone4: int(z[3].Int64),
			Zone5: int(z[4].Int64),
		}
	}

	if err := json.Unmarshal([]byte(samples), &r.Samples); err != nil {
		return nil, fmt.Errorf("run %s: decoding samples: %w", r.ID, ErrMalformedRecord)
	}

	return &r, nil
}
