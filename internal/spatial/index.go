// Package spatial provides a bulk-loaded R-tree spatial index over graph
// nodes, supporting nearest, nearest-k, and radius queries.
package spatial

import (
	"errors"
	"math"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
)

// ErrEmptyIndex is returned by FindNearest when the index holds no points.
var ErrEmptyIndex = errors.New("spatial: index is empty")

// Options configures Index construction.
type Options struct {
	// FilterToLargestComponent restricts the index to nodes in the graph's
	// largest connected component. Defaults to true.
	FilterToLargestComponent bool
}

// Index is a read-only, bulk-loaded R-tree over a StreetGraph's nodes.
// Safe for concurrent queries once built.
type Index struct {
	tree  rtree.RTreeG[graph.NodeID]
	nodes map[graph.NodeID]geo.Coordinate
}

// Build bulk-loads an Index from g's nodes via sequential insertion — there
// is no separate incremental-insert path once construction finishes.
func Build(g *graph.StreetGraph, opts ...Options) *Index {
	opt := Options{FilterToLargestComponent: true}
	if len(opts) > 0 {
		opt = opts[0]
	}

	var keep map[graph.NodeID]bool
	if opt.FilterToLargestComponent {
		keep = graph.LargestComponentSet(g)
	}

	idx := &Index{nodes: make(map[graph.NodeID]geo.Coordinate, g.Order())}
	for id, n := range g.Nodes {
		if keep != nil && !keep[id] {
			continue
		}
		pt := [2]float64{n.Coord.Lng, n.Coord.Lat}
		idx.tree.Insert(pt, pt, id)
		idx.nodes[id] = n.Coord
	}
	return idx
}

// Len returns the number of nodes in the index.
func (idx *Index) Len() int { return len(idx.nodes) }

// FindNearest returns the single nearest node to coord by haversine
// distance. Returns
// ErrEmptyIndex if the index holds no points.
func (idx *Index) FindNearest(coord geo.Coordinate) (graph.NodeID, error) {
	if idx.Len() == 0 {
		return 0, ErrEmptyIndex
	}

	// Expanding-box search: start tight, double until a candidate appears,
	// then confirm with an exact haversine pass over a box sized to the true
	// minimum distance found, since the initial box can clip a point that's
	// haversine-closer but falls outside it along one axis (e.g. a point
	// due north of coord vs. a diagonal point that's inside the box).
	const startDeg = 0.001 // ~100m
	for radiusDeg := startDeg; ; radiusDeg *= 2 {
		candidates := idx.search(coord, radiusDeg)
		if len(candidates) == 0 && radiusDeg <= 360 {
			continue
		}
		if len(candidates) == 0 {
			// Box grew past the whole world; fall back to a full scan.
			candidates = idx.allIDs()
		}

		best, bestDist := idx.nearestOf(coord, candidates)

		cosLat := math.Max(math.Cos(coord.Lat*math.Pi/180), 0.01)
		confirmDeg := bestDist/(111_000*cosLat) + 0.0001
		if confirmDeg > radiusDeg {
			confirmed := idx.search(coord, confirmDeg)
			best, _ = idx.nearestOf(coord, confirmed)
		}
		return best, nil
	}
}

func (idx *Index) nearestOf(coord geo.Coordinate, candidates []graph.NodeID) (graph.NodeID, float64) {
	best, bestDist := graph.NodeID(0), math.Inf(1)
	for _, id := range candidates {
		d := geo.Haversine(coord, idx.nodes[id])
		if d < bestDist {
			bestDist = d
			best = id
		}
	}
	return best, bestDist
}

// FindNearestK returns up to k nearest nodes to coord, optionally bounded by
// maxDistMeters (0 = unbounded), ordered nearest-first.
func (idx *Index) FindNearestK(coord geo.Coordinate, k int, maxDistMeters float64) []graph.NodeID {
	if idx.Len() == 0 || k <= 0 {
		return nil
	}

	radiusDeg := 0.002
	var candidates []graph.NodeID
	for {
		candidates = idx.search(coord, radiusDeg)
		approxMeters := radiusDeg * 111_000
		if len(candidates) >= k || approxMeters > 200_000 {
			break
		}
		radiusDeg *= 2
	}

	type scored struct {
		id   graph.NodeID
		dist float64
	}
	scoredList := make([]scored, 0, len(candidates))
	for _, id := range candidates {
		d := geo.Haversine(coord, idx.nodes[id])
		if maxDistMeters > 0 && d > maxDistMeters {
			continue
		}
		scoredList = append(scoredList, scored{id, d})
	}
	sort.Slice(scoredList, func(i, j int) bool { return scoredList[i].dist < scoredList[j].dist })

	if len(scoredList) > k {
		scoredList = scoredList[:k]
	}
	out := make([]graph.NodeID, len(scoredList))
	for i, s := range scoredList {
		out[i] = s.id
	}
	return out
}

// FindWithinRadius returns all node ids within rMeters of coord.
func (idx *Index) FindWithinRadius(coord geo.Coordinate, rMeters float64) []graph.NodeID {
	// A generous degree box bounds the candidate set; haversine confirms.
	cosLat := math.Max(math.Cos(coord.Lat*math.Pi/180), 0.01)
	radiusDeg := rMeters/(111_000*cosLat) + 0.0005
	var out []graph.NodeID
	for _, id := range idx.search(coord, radiusDeg) {
		if geo.Haversine(coord, idx.nodes[id]) <= rMeters {
			out = append(out, id)
		}
	}
	return out
}

func (idx *Index) search(coord geo.Coordinate, radiusDeg float64) []graph.NodeID {
	min := [2]float64{coord.Lng - radiusDeg, coord.Lat - radiusDeg}
	max := [2]float64{coord.Lng + radiusDeg, coord.Lat + radiusDeg}
	var out []graph.NodeID
	idx.tree.Search(min, max, func(_, _ [2]float64, data graph.NodeID) bool {
		out = append(out, data)
		return true
	})
	return out
}

func (idx *Index) allIDs() []graph.NodeID {
	out := make([]graph.NodeID, 0, len(idx.nodes))
	for id := range idx.nodes {
		out = append(out, id)
	}
	return out
}
