package location

import (
	"errors"
	"strings"
	"testing"
)

const testGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test">
  <trk>
    <name>Morning run</name>
    <trkseg>
      <trkpt lat="55.000" lon="37.000"><time>2024-05-01T07:00:00Z</time><hdop>1.2</hdop></trkpt>
      <trkpt lat="55.001" lon="37.000"><time>2024-05-01T07:00:10Z</time></trkpt>
      <trkpt lat="55.002" lon="37.000"></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="55.003" lon="37.001"><time>2024-05-01T07:00:30Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestLoadGPX(t *testing.T) {
	samples, err := LoadGPX(strings.NewReader(testGPX))
	if err != nil {
		t.Fatalf("LoadGPX failed: %v", err)
	}

	// The point without a time is skipped
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	if samples[0].Latitude != 55.0 || samples[0].Longitude != 37.0 {
		t.Errorf("samples[0] = %+v", samples[0])
	}
	if samples[1].TimestampMillis-samples[0].TimestampMillis != 10000 {
		t.Errorf("expected 10s between first samples, got %dms", samples[1].TimestampMillis-samples[0].TimestampMillis)
	}
	if samples[0].AccuracyMeters != 6 {
		t.Errorf("AccuracyMeters = %v, want 6 from hdop 1.2", samples[0].AccuracyMeters)
	}
	if samples[1].AccuracyMeters != 5 {
		t.Errorf("AccuracyMeters = %v, want default 5", samples[1].AccuracyMeters)
	}
	if samples[2].Longitude != 37.001 {
		t.Errorf("second segment point not loaded: %+v", samples[2])
	}
}

func TestLoadGPX_Empty(t *testing.T) {
	_, err := LoadGPX(strings.NewReader(`<gpx version="1.1"><trk><trkseg></trkseg></trk></gpx>`))
	if !errors.Is(err, ErrEmptyTrack) {
		t.Errorf("expected ErrEmptyTrack, got %v", err)
	}
}

func TestLoadGPX_LocalTime(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="watch">
  <trk><trkseg>
    <trkpt lat="55.000" lon="37.000"><time>2024-05-01T07:00:00</time></trkpt>
    <trkpt lat="55.001" lon="37.000"><time>2024-05-01T07:00:05</time></trkpt>
  </trkseg></trk>
</gpx>`

	samples, err := LoadGPX(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadGPX failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if d := samples[1].TimestampMillis - samples[0].TimestampMillis; d != 5000 {
		t.Errorf("expected 5s between samples, got %dms", d)
	}
}

func TestLoadGPX_Invalid(t *testing.T) {
	if _, err := LoadGPX(strings.NewReader(`<gpx version="1.1"><trk>`)); err == nil {
		t.Error("expected decode error")
	}
}
