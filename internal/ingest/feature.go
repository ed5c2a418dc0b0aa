// Package ingest reads a road-network feature collection from disk — either
// GeoJSON or an OSM PBF extract — into the common LineFeature representation
// the street graph builder consumes.
package ingest

import "github.com/kojo8888/stravart-sub001/internal/geo"

// LineFeature is one ingested road polyline prior to graph construction.
type LineFeature struct {
	Coords         []geo.Coordinate
	Classification string // e.g. a highway tag; preserved for the caller, unused by the core
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only features with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(c geo.Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// Stats counts what happened during ingestion, for the caller's diagnostics.
type Stats struct {
	FeaturesRead    int
	FeaturesSkipped int // malformed geometry: not a line, <2 points, or (OSM) a node without coordinates; coordinate values are not range-checked
}
