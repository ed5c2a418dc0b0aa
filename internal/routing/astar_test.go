package routing

import (
	"testing"

	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
)

func lineGraph(t *testing.T) *graph.StreetGraph {
	t.Helper()
	c := func(lat, lng float64) geo.Coordinate { return geo.Coordinate{Lat: lat, Lng: lng} }
	features := []ingest.LineFeature{
		{Coords: []geo.Coordinate{c(1.000, 103.000), c(1.001, 103.000)}},
		{Coords: []geo.Coordinate{c(1.001, 103.000), c(1.002, 103.000)}},
		{Coords: []geo.Coordinate{c(1.002, 103.000), c(1.003, 103.000)}},
	}
	g, err := graph.Build(features, 1.0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestFindPathUnconstrained(t *testing.T) {
	g := lineGraph(t)
	var start, goal graph.NodeID
	for id, n := range g.Nodes {
		if n.Coord.Lat == 1.000 {
			start = id
		}
		if n.Coord.Lat == 1.003 {
			goal = id
		}
	}

	path, err := findPath(g, start, goal, Params{})
	if err != nil {
		t.Fatalf("findPath: %v", err)
	}
	if len(path.nodes) != 4 {
		t.Fatalf("path has %d nodes, want 4", len(path.nodes))
	}
	if path.nodes[0] != start || path.nodes[len(path.nodes)-1] != goal {
		t.Error("path endpoints don't match start/goal")
	}
}

func TestFindPathSameNode(t *testing.T) {
	g := lineGraph(t)
	var n graph.NodeID
	for id := range g.Nodes {
		n = id
		break
	}
	path, err := findPath(g, n, n, Params{})
	if err != nil {
		t.Fatalf("findPath: %v", err)
	}
	if len(path.nodes) != 1 {
		t.Errorf("expected single-node path, got %d nodes", len(path.nodes))
	}
}

func TestFindPathNoRouteWhenDisconnected(t *testing.T) {
	c := func(lat, lng float64) geo.Coordinate { return geo.Coordinate{Lat: lat, Lng: lng} }
	features := []ingest.LineFeature{
		{Coords: []geo.Coordinate{c(1.0, 103.0), c(1.1, 103.0)}},
		{Coords: []geo.Coordinate{c(5.0, 110.0), c(5.1, 110.0)}},
	}
	g, err := graph.Build(features, 1.0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var a, b graph.NodeID
	for id, n := range g.Nodes {
		if n.Coord.Lat == 1.0 {
			a = id
		}
		if n.Coord.Lat == 5.0 {
			b = id
		}
	}

	_, err = findPath(g, a, b, Params{})
	if err != ErrNoPath {
		t.Fatalf("err = %v, want ErrNoPath", err)
	}
}
