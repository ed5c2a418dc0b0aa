package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleFC = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"highway": "residential"},
      "geometry": {
        "type": "LineString",
        "coordinates": [[103.8, 1.3], [103.801, 1.301]]
      }
    },
    {
      "type": "Feature",
      "properties": {"highway": "primary"},
      "geometry": {
        "type": "MultiLineString",
        "coordinates": [
          [[103.8, 1.3], [103.81, 1.31]],
          [[103.81, 1.31], [103.82, 1.32]]
        ]
      }
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "Point", "coordinates": [103.8, 1.3]}
    }
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.geojson")
	if err := os.WriteFile(path, []byte(sampleFC), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadGeoJSON(t *testing.T) {
	path := writeSample(t)

	features, stats, err := LoadGeoJSON(path)
	if err != nil {
		t.Fatalf("LoadGeoJSON: %v", err)
	}
	if stats.FeaturesRead != 3 {
		t.Errorf("FeaturesRead = %d, want 3", stats.FeaturesRead)
	}
	if stats.FeaturesSkipped != 1 {
		t.Errorf("FeaturesSkipped = %d, want 1 (the Point feature)", stats.FeaturesSkipped)
	}
	// 1 LineString + 2 lines from the MultiLineString = 3 line features.
	if len(features) != 3 {
		t.Fatalf("got %d line features, want 3", len(features))
	}
	if features[0].Classification != "residential" {
		t.Errorf("Classification = %q, want residential", features[0].Classification)
	}
	if features[0].Coords[0].Lat != 1.3 || features[0].Coords[0].Lng != 103.8 {
		t.Errorf("first coord = %+v, want (1.3, 103.8)", features[0].Coords[0])
	}
}

func TestLoadGeoJSONWithBBox(t *testing.T) {
	path := writeSample(t)

	features, _, err := LoadGeoJSON(path, GeoJSONOptions{
		BBox: BBox{MinLat: 1.29, MaxLat: 1.305, MinLng: 103.79, MaxLng: 103.805},
	})
	if err != nil {
		t.Fatalf("LoadGeoJSON: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("got %d features within bbox, want 1", len(features))
	}
}
