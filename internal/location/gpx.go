package location

import (
	"errors"
	"fmt"
	"io"

	"github.com/tkrajina/gpxgo/gpx"

	"runtracker/internal/store"
)

// ErrEmptyTrack is returned when a GPX file has no timed track points
var ErrEmptyTrack = errors.New("gpx track has no points")

// LoadGPXFile reads track points from a GPX file
func LoadGPXFile(path string) ([]store.GeoSample, error) {
	doc, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing gpx file: %w", err)
	}
	return trackSamples(doc)
}

// LoadGPX decodes track points in document order. Points without a time are
// skipped since a sample must carry a timestamp.
func LoadGPX(r io.Reader) ([]store.GeoSample, error) {
	doc, err := gpx.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing gpx: %w", err)
	}
	return trackSamples(doc)
}

func trackSamples(doc *gpx.GPX) ([]store.GeoSample, error) {
	var samples []store.GeoSample
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				if pt.Timestamp.IsZero() {
					continue
				}
				samples = append(samples, store.GeoSample{
					Latitude:        pt.Latitude,
					Longitude:       pt.Longitude,
					AccuracyMeters:  accuracyFromHDOP(pt.HorizontalDilution.Value()),
					TimestampMillis: pt.Timestamp.UnixMilli(),
				})
			}
		}
	}

	if len(samples) == 0 {
		return nil, ErrEmptyTrack
	}
	return samples, nil
}

// accuracyFromHDOP approximates horizontal accuracy from dilution of precision
// using a 5 m user range error
func accuracyFromHDOP(hdop float64) float64 {
	if hdop <= 0 {
		return 5
	}
	return hdop * 5
}
