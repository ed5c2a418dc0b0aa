package graph

import (
	"math"

	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
)

// DefaultMergeThresholdMeters is the default distance within which two
// endpoints in the input feature stream are unified into one node.
const DefaultMergeThresholdMeters = 5.0

const metersPerDegreeLat = 111_320.0

// endpointCanonicalizer snaps co-located coordinates to a single node id
// using a spatial hash grid sized to the merge threshold, the same
// grid-bucketing technique the spatial snapper uses for nearest-road
// queries, reapplied here to node identity instead of edge lookup.
type endpointCanonicalizer struct {
	g              *StreetGraph
	thresholdM     float64
	latCellSizeDeg float64
	lngCellSizeDeg float64
	buckets        map[[2]int64][]NodeID
	nextID         NodeID
}

func newEndpointCanonicalizer(g *StreetGraph, thresholdMeters, refLat float64) *endpointCanonicalizer {
	cosLat := math.Cos(refLat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	return &endpointCanonicalizer{
		g:              g,
		thresholdM:     thresholdMeters,
		latCellSizeDeg: thresholdMeters / metersPerDegreeLat,
		lngCellSizeDeg: thresholdMeters / (metersPerDegreeLat * cosLat),
		buckets:        make(map[[2]int64][]NodeID),
	}
}

func (c *endpointCanonicalizer) cell(coord geo.Coordinate) [2]int64 {
	return [2]int64{
		int64(math.Floor(coord.Lat / c.latCellSizeDeg)),
		int64(math.Floor(coord.Lng / c.lngCellSizeDeg)),
	}
}

// Canonicalize returns the node id for coord, merging it into an existing
// node within the merge threshold if one exists, or minting a new one.
func (c *endpointCanonicalizer) Canonicalize(coord geo.Coordinate) NodeID {
	center := c.cell(coord)

	var bestID NodeID = -1
	bestDist := math.Inf(1)

	for dLat := int64(-1); dLat <= 1; dLat++ {
		for dLng := int64(-1); dLng <= 1; dLng++ {
			key := [2]int64{center[0] + dLat, center[1] + dLng}
			for _, id := range c.buckets[key] {
				d := geo.Haversine(coord, c.g.Nodes[id].Coord)
				if d <= c.thresholdM && d < bestDist {
					bestDist = d
					bestID = id
				}
			}
		}
	}

	if bestID >= 0 {
		return bestID
	}

	id := c.nextID
	c.nextID++
	c.g.Nodes[id] = &Node{ID: id, Coord: coord}
	c.buckets[center] = append(c.buckets[center], id)
	return id
}

// Build constructs a StreetGraph from ingested line features, merging
// co-located endpoints within mergeThresholdMeters. Every vertex of every
// feature's polyline is a split point: no densification beyond the source
// vertices, and no intermediate-vertex merging (only edge endpoints are
// canonicalized).
func Build(features []ingest.LineFeature, mergeThresholdMeters float64) (*StreetGraph, error) {
	if mergeThresholdMeters <= 0 {
		mergeThresholdMeters = DefaultMergeThresholdMeters
	}

	g := newStreetGraph()

	usable := 0
	for _, f := range features {
		if len(f.Coords) >= 2 {
			usable++
		}
	}
	if usable == 0 {
		return nil, ErrGraphBuildFailed
	}

	refLat := centroidLat(features)
	canon := newEndpointCanonicalizer(g, mergeThresholdMeters, refLat)

	for _, f := range features {
		if len(f.Coords) < 2 {
			continue
		}
		for i := 0; i+1 < len(f.Coords); i++ {
			u := canon.Canonicalize(f.Coords[i])
			v := canon.Canonicalize(f.Coords[i+1])
			g.addEdge(u, v, []geo.Coordinate{f.Coords[i], f.Coords[i+1]}, f.Classification)
		}
	}

	if g.Order() == 0 || g.Size() == 0 {
		return nil, ErrGraphBuildFailed
	}

	return g, nil
}

func centroidLat(features []ingest.LineFeature) float64 {
	var sum float64
	var n int
	for _, f := range features {
		for _, c := range f.Coords {
			sum += c.Lat
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
