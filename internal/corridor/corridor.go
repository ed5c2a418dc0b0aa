// Package corridor builds a per-request admissibility model from a shape's
// dense sample sequence: a coordinate is admissible if it lies within
// corridorWidth meters of some dense sample.
package corridor

import (
	"math"

	"github.com/tidwall/rtree"

	"github.com/kojo8888/stravart-sub001/internal/geo"
)

// DefaultRelaxFactor is the fallback multiplier A* applies to corridorWidth
// when the original corridor yields no path (SPEC_FULL 4.7 fallback step 2).
const DefaultRelaxFactor = 1.25

// Model is a request-owned corridor + tangent-bearing index over a shape's
// dense sample sequence. Not safe for concurrent mutation, but read-only
// queries (Admissible, TangentBearingNear) are safe for concurrent use.
type Model struct {
	samples       []geo.Coordinate
	bearings      []float64 // tangent bearing from samples[i] to samples[i+1], wrapping
	corridorWidth float64
	tree          *rtree.RTreeG[int] // shared across Relax() copies
}

// New builds a Model from a closed dense sample sequence (first point
// repeated at the end, as produced by shape.Generate) and a corridor width
// in meters.
func New(denseSamples []geo.Coordinate, corridorWidthMeters float64) *Model {
	n := len(denseSamples)
	if n > 0 && denseSamples[0] == denseSamples[n-1] {
		n-- // drop the repeated closing point for bearing/indexing purposes
	}

	tree := &rtree.RTreeG[int]{}
	bearings := make([]float64, n)
	for i := 0; i < n; i++ {
		pt := [2]float64{denseSamples[i].Lng, denseSamples[i].Lat}
		tree.Insert(pt, pt, i)
		next := (i + 1) % n
		bearings[i] = geo.Bearing(denseSamples[i], denseSamples[next])
	}

	return &Model{
		samples:       denseSamples[:n],
		bearings:      bearings,
		corridorWidth: corridorWidthMeters,
		tree:          tree,
	}
}

// Width returns the corridor width currently in effect.
func (m *Model) Width() float64 { return m.corridorWidth }

// Relax returns a new Model sharing the same underlying R-tree and samples,
// with corridorWidth scaled by factor.
func (m *Model) Relax(factor float64) *Model {
	return &Model{
		samples:       m.samples,
		bearings:      m.bearings,
		corridorWidth: m.corridorWidth * factor,
		tree:          m.tree,
	}
}

// Admissible reports whether c lies within the active corridor width of the
// nearest dense sample. The R-tree bounds the candidate set; exact haversine
// confirms.
func (m *Model) Admissible(c geo.Coordinate) bool {
	_, dist, ok := m.nearestIndex(c)
	return ok && dist <= m.corridorWidth
}

// TangentBearingNear returns the local tangent bearing sampled at the
// nearest dense sample to c: the bearing from that sample to the next one
// in the closed sequence.
func (m *Model) TangentBearingNear(c geo.Coordinate) float64 {
	idx, _, ok := m.nearestIndex(c)
	if !ok {
		return 0
	}
	return m.bearings[idx]
}

// nearestIndex finds the closest dense sample to c by expanding-box R-tree
// search, confirmed by a second exact-haversine pass over a box sized to the
// true minimum distance found — the initial box can clip a sample that's
// haversine-closer but falls outside it along one axis. Returns ok=false
// only when the model has no samples.
func (m *Model) nearestIndex(c geo.Coordinate) (idx int, dist float64, ok bool) {
	if len(m.samples) == 0 {
		return 0, 0, false
	}

	const startDeg = 0.0005 // ~50m
	for radiusDeg := startDeg; ; radiusDeg *= 2 {
		bestIdx, bestDist, found := m.searchBox(c, radiusDeg)
		if !found && radiusDeg <= 360 {
			continue
		}
		if !found {
			// Box grew past the whole world; fall back to a full scan.
			bestIdx, bestDist, _ = m.fullScan(c)
			return bestIdx, bestDist, true
		}

		cosLat := math.Max(math.Cos(c.Lat*math.Pi/180), 0.01)
		confirmDeg := bestDist/(111_000*cosLat) + 0.0001
		if confirmDeg > radiusDeg {
			if cIdx, cDist, cFound := m.searchBox(c, confirmDeg); cFound {
				bestIdx, bestDist = cIdx, cDist
			}
		}
		return bestIdx, bestDist, true
	}
}

func (m *Model) searchBox(c geo.Coordinate, radiusDeg float64) (idx int, dist float64, found bool) {
	bestIdx := -1
	bestDist := 0.0
	min := [2]float64{c.Lng - radiusDeg, c.Lat - radiusDeg}
	max := [2]float64{c.Lng + radiusDeg, c.Lat + radiusDeg}
	m.tree.Search(min, max, func(_, _ [2]float64, i int) bool {
		d := geo.Haversine(c, m.samples[i])
		if bestIdx < 0 || d < bestDist {
			bestIdx = i
			bestDist = d
		}
		return true
	})
	if bestIdx < 0 {
		return 0, 0, false
	}
	return bestIdx, bestDist, true
}

func (m *Model) fullScan(c geo.Coordinate) (idx int, dist float64, found bool) {
	bestIdx := -1
	bestDist := 0.0
	for i, s := range m.samples {
		d := geo.Haversine(c, s)
		if bestIdx < 0 || d < bestDist {
			bestIdx = i
			bestDist = d
		}
	}
	if bestIdx < 0 {
		return 0, 0, false
	}
	return bestIdx, bestDist, true
}
