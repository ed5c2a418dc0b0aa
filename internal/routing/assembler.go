// Package routing assembles shape-constrained loop routes: it snaps a
// shape's sparse waypoints onto the street graph and stitches them together
// with a corridor- and direction-constrained A* search, falling back to
// alternate snaps and a relaxed corridor before giving up on a leg.
package routing

import (
	"errors"

	"github.com/kojo8888/stravart-sub001/internal/corridor"
	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/shape"
	"github.com/kojo8888/stravart-sub001/internal/spatial"
)

// Defaults per SPEC_FULL 6.
const (
	DefaultDirectionPenalty = 0.6
	DefaultWaypointCount    = 40
	DefaultCloseLoop        = true
)

// Options configures a route request. Zero values trigger the package
// defaults except where noted.
type Options struct {
	// CorridorWidthMeters defaults to 20% of radiusMeters when <= 0.
	CorridorWidthMeters float64
	// DirectionPenalty in [0, 1]. The zero value is used as is (no direction
	// penalty); DefaultDirectionPenalty is not substituted for it.
	DirectionPenalty float64
	// WaypointCount (sparse), default 40.
	WaypointCount int
	// CloseLoop defaults to true; set explicitly via CloseLoopSet when false
	// is actually desired, since the zero value of bool can't distinguish
	// "unset" from "false".
	CloseLoop    bool
	CloseLoopSet bool
	// Cancel, if non-nil, is checked at A* pop boundaries and between legs.
	Cancel <-chan struct{}
}

func (o Options) closeLoop() bool {
	if !o.CloseLoopSet {
		return DefaultCloseLoop
	}
	return o.CloseLoop
}

// Diagnostics records the internal retries a route request needed, returned
// alongside a successful route so a caller can distinguish "clean loop" from
// "stitched around N gaps" without parsing logs.
type Diagnostics struct {
	RelaxedLegs       int
	AlternateSnapLegs int
	SkippedLegs       int
	Closed            bool
}

// RouteSegment is one directed traversal of a single graph edge.
type RouteSegment struct {
	FromNode     graph.NodeID
	ToNode       graph.NodeID
	Polyline     []geo.Coordinate
	LengthMeters float64
}

// Route is the assembled output of a route request.
type Route struct {
	Segments          []RouteSegment
	TotalLengthMeters float64
	Diagnostics       Diagnostics
}

// Route generates a shape-constrained loop around center with the given
// radius, snapping the shape's waypoints onto g via idx and stitching them
// with constrained A*.
func Route(g *graph.StreetGraph, idx *spatial.Index, center geo.Coordinate, shapeType shape.ShapeType, radiusMeters float64, opts Options) (*Route, error) {
	corridorWidth := opts.CorridorWidthMeters
	if corridorWidth <= 0 {
		corridorWidth = radiusMeters * 0.2
	}
	directionPenalty := opts.DirectionPenalty
	waypointCount := opts.WaypointCount
	if waypointCount <= 0 {
		waypointCount = DefaultWaypointCount
	}
	closeLoop := opts.closeLoop()

	wp := shape.Generate(shapeType, center, radiusMeters, shape.DefaultDenseCount, waypointCount)
	cm := corridor.New(wp.Dense, corridorWidth)

	snapped, err := snapWaypoints(idx, wp.Sparse)
	if err != nil {
		return nil, err
	}
	if len(snapped) < 2 {
		return nil, ErrRouteEmpty
	}

	pairs := legPairs(snapped, closeLoop)

	var segments []RouteSegment
	var diag Diagnostics
	closedSoFar := true

	for i, pair := range pairs {
		if cancelled(opts.Cancel) {
			return nil, ErrCancelled
		}

		path, relaxed, usedAlternate, ok := resolveLeg(g, idx, cm, pair.from, pair.to, directionPenalty, opts.Cancel)
		if !ok {
			diag.SkippedLegs++
			if i == len(pairs)-1 && closeLoop {
				// Final wraparound leg failed: emit the route open rather
				// than discarding it.
				closedSoFar = false
				continue
			}
			continue
		}
		if relaxed {
			diag.RelaxedLegs++
		}
		if usedAlternate {
			diag.AlternateSnapLegs++
		}
		segments = append(segments, toSegments(g, path)...)
	}

	if len(segments) == 0 {
		return nil, ErrRouteEmpty
	}

	total := 0.0
	for _, s := range segments {
		total += s.LengthMeters
	}
	diag.Closed = closeLoop && closedSoFar && diag.SkippedLegs == 0

	return &Route{Segments: segments, TotalLengthMeters: total, Diagnostics: diag}, nil
}

type legPair struct {
	from, to graph.NodeID
}

// legPairs builds consecutive node pairs from the snapped waypoint sequence,
// including the wraparound pair when closeLoop is set.
func legPairs(nodes []graph.NodeID, closeLoop bool) []legPair {
	pairs := make([]legPair, 0, len(nodes))
	for i := 0; i+1 < len(nodes); i++ {
		pairs = append(pairs, legPair{nodes[i], nodes[i+1]})
	}
	if closeLoop && nodes[0] != nodes[len(nodes)-1] {
		pairs = append(pairs, legPair{nodes[len(nodes)-1], nodes[0]})
	}
	return pairs
}

// resolveLeg runs constrained A* between from and to, applying the fallback
// ladder on failure: alternate nearest-node snaps, then a relaxed corridor,
// then give up (ok=false).
func resolveLeg(g *graph.StreetGraph, idx *spatial.Index, cm *corridor.Model, from, to graph.NodeID, directionPenalty float64, cancel <-chan struct{}) (path *pathNode, relaxed, usedAlternate bool, ok bool) {
	p := Params{DirectionPenalty: directionPenalty, Corridor: cm, Cancel: cancel}

	if path, err := findPath(g, from, to, p); err == nil {
		return path, false, false, true
	} else if errors.Is(err, ErrCancelled) {
		return nil, false, false, false
	}

	fromCoord := g.Nodes[from].Coord
	toCoord := g.Nodes[to].Coord
	fromAlts := idx.FindNearestK(fromCoord, nearestAlternatesK, 0)
	toAlts := idx.FindNearestK(toCoord, nearestAlternatesK, 0)
	for _, fa := range fromAlts {
		for _, ta := range toAlts {
			if fa == ta {
				continue
			}
			if path, err := findPath(g, fa, ta, p); err == nil {
				return path, false, true, true
			} else if errors.Is(err, ErrCancelled) {
				return nil, false, false, false
			}
		}
	}

	relaxedP := Params{DirectionPenalty: directionPenalty, Corridor: cm.Relax(corridor.DefaultRelaxFactor), Cancel: cancel}
	if path, err := findPath(g, from, to, relaxedP); err == nil {
		return path, true, false, true
	}

	return nil, false, false, false
}

// toSegments flattens a pathNode's edge sequence into directed RouteSegments
// oriented per traversal direction.
func toSegments(g *graph.StreetGraph, path *pathNode) []RouteSegment {
	segs := make([]RouteSegment, 0, len(path.edges))
	for i, edgeID := range path.edges {
		from, to := path.nodes[i], path.nodes[i+1]
		e := g.Edges[edgeID]
		segs = append(segs, RouteSegment{
			FromNode:     from,
			ToNode:       to,
			Polyline:     orientedPolyline(e, from),
			LengthMeters: e.Length,
		})
	}
	return segs
}

// orientedPolyline returns e's polyline ordered so it starts at node from.
func orientedPolyline(e *graph.Edge, from graph.NodeID) []geo.Coordinate {
	if from == e.U {
		return e.Polyline
	}
	reversed := make([]geo.Coordinate, len(e.Polyline))
	for i, c := range e.Polyline {
		reversed[len(e.Polyline)-1-i] = c
	}
	return reversed
}
