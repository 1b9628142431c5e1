package store

import "time"

// RunMode identifies how a run was recorded
type RunMode string

const (
	ModeOutdoor   RunMode = "outdoor"
	ModeTreadmill RunMode = "treadmill"
)

// GeoSample is a single timestamped position reading
type GeoSample struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	AccuracyMeters  float64 `json:"accuracy"`
	TimestampMillis int64   `json:"timestamp"`
}

// ZoneDistribution holds the percentage of heart-rate samples in each zone.
// Values are rounded independently and may not sum to exactly 100.
type ZoneDistribution struct {
	Zone1 int `json:"zone1"`
	Zone2 int `json:"zone2"`
	Zone3 int `json:"zone3"`
	Zone4 int `json:"zone4"`
	Zone5 int `json:"zone5"`
}

// Percent returns the percentage for zone 1-5, or 0 for any other zone
func (z ZoneDistribution) Percent(zone int) int {
	switch zone {
	case 1:
		return z.Zone1
	case 2:
		return z.Zone2
	case 3:
		return z.Zone3
	case 4:
		return z.Zone4
	case 5:
		return z.Zone5
	}
	return 0
}

// RunSummary is the persisted record of one finished run
type RunSummary struct {
	ID              string            `json:"id"`
	Date            time.Time         `json:"date"`
	Territory       string            `json:"territory"`
	Mode            RunMode           `json:"mode,omitempty"`
	DistanceKm      float64           `json:"distance"`
	ElapsedSeconds  int               `json:"time"`
	AvgSpeedKmh     float64           `json:"avgSpeed"`
	AvgPaceMinPerKm float64           `json:"avgPace"`
	MaxSpeedKmh     float64           `json:"maxSpeed"`
	Calories        int               `json:"calories"`
	AvgHeartRate    *int              `json:"avgHeartRate,omitempty"`    // nullable
	HeartRateZones  *ZoneDistribution `json:"heartRateZones,omitempty"`  // nullable
	Samples         []GeoSample       `json:"positions"`
}

// Auth is the stored session credential used for the remote runs service
type Auth struct {
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"` // zero means no expiry
}

// User is an account of the runs service
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}
