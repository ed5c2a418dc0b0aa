package ingest

import (
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kojo8888/stravart-sub001/internal/geo"
)

// GeoJSONOptions configures the GeoJSON loader.
type GeoJSONOptions struct {
	BBox BBox
	// ClassificationProperty is the feature property copied into
	// LineFeature.Classification. Defaults to "highway".
	ClassificationProperty string
}

// LoadGeoJSON reads a GeoJSON FeatureCollection of LineString/MultiLineString
// geometries from path and returns the line features it contains.
func LoadGeoJSON(path string, opts ...GeoJSONOptions) ([]LineFeature, Stats, error) {
	var opt GeoJSONOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.ClassificationProperty == "" {
		opt.ClassificationProperty = "highway"
	}
	useBBox := !opt.BBox.IsZero()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read geojson file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("unmarshal feature collection: %w", err)
	}

	var stats Stats
	var features []LineFeature

	for _, f := range fc.Features {
		stats.FeaturesRead++
		tag, _ := f.Properties[opt.ClassificationProperty].(string)

		lines := flattenLines(f.Geometry)
		if len(lines) == 0 {
			stats.FeaturesSkipped++
			continue
		}

		for _, ls := range lines {
			coords := make([]geo.Coordinate, 0, len(ls))
			for _, pt := range ls {
				coords = append(coords, geo.Coordinate{Lat: pt[1], Lng: pt[0]})
			}
			if len(coords) < 2 {
				stats.FeaturesSkipped++
				continue
			}
			if useBBox && (!opt.BBox.Contains(coords[0]) || !opt.BBox.Contains(coords[len(coords)-1])) {
				continue
			}
			features = append(features, LineFeature{Coords: coords, Classification: tag})
		}
	}

	log.Printf("ingest: read %d GeoJSON features, skipped %d malformed, produced %d line features",
		stats.FeaturesRead, stats.FeaturesSkipped, len(features))

	return features, stats, nil
}

// flattenLines extracts the constituent LineStrings of a geometry, exploding
// a MultiLineString into one entry per component line. Any other geometry
// type yields nothing (the caller counts it as skipped).
func flattenLines(g orb.Geometry) []orb.LineString {
	switch geom := g.(type) {
	case orb.LineString:
		return []orb.LineString{geom}
	case orb.MultiLineString:
		return []orb.LineString(geom)
	default:
		return nil
	}
}
