package spatial

import (
	"testing"

	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
)

func buildTestGraph(t *testing.T) *graph.StreetGraph {
	t.Helper()
	c := func(lat, lng float64) geo.Coordinate { return geo.Coordinate{Lat: lat, Lng: lng} }
	features := []ingest.LineFeature{
		{Coords: []geo.Coordinate{c(1.000, 103.000), c(1.001, 103.000)}},
		{Coords: []geo.Coordinate{c(1.001, 103.000), c(1.002, 103.000)}},
		{Coords: []geo.Coordinate{c(1.002, 103.000), c(1.002, 103.001)}},
	}
	g, err := graph.Build(features, 5.0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestFindNearest(t *testing.T) {
	g := buildTestGraph(t)
	idx := Build(g)

	if idx.Len() != g.Order() {
		t.Fatalf("index has %d nodes, want %d", idx.Len(), g.Order())
	}

	id, err := idx.FindNearest(geo.Coordinate{Lat: 1.0021, Lng: 103.0011})
	if err != nil {
		t.Fatalf("FindNearest: %v", err)
	}
	got := g.Nodes[id].Coord
	want := geo.Coordinate{Lat: 1.002, Lng: 103.001}
	if geo.Haversine(got, want) > 50 {
		t.Errorf("FindNearest returned %v, want near %v", got, want)
	}
}

func TestFindNearestEmptyIndex(t *testing.T) {
	g, _ := graph.Build(nil, 5.0) // guaranteed error but defend anyway
	_ = g
	idx := &Index{nodes: map[graph.NodeID]geo.Coordinate{}}
	_, err := idx.FindNearest(geo.Coordinate{Lat: 1, Lng: 1})
	if err != ErrEmptyIndex {
		t.Fatalf("err = %v, want ErrEmptyIndex", err)
	}
}

func TestFindNearestK(t *testing.T) {
	g := buildTestGraph(t)
	idx := Build(g)

	ids := idx.FindNearestK(geo.Coordinate{Lat: 1.001, Lng: 103.000}, 2, 0)
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
}

func TestFindWithinRadius(t *testing.T) {
	g := buildTestGraph(t)
	idx := Build(g)

	ids := idx.FindWithinRadius(geo.Coordinate{Lat: 1.001, Lng: 103.000}, 300)
	if len(ids) == 0 {
		t.Fatal("expected at least one node within radius")
	}
	for _, id := range ids {
		if geo.Haversine(geo.Coordinate{Lat: 1.001, Lng: 103.000}, g.Nodes[id].Coord) > 300 {
			t.Errorf("node %d outside requested radius", id)
		}
	}
}

func TestFilterToLargestComponent(t *testing.T) {
	c := func(lat, lng float64) geo.Coordinate { return geo.Coordinate{Lat: lat, Lng: lng} }
	features := []ingest.LineFeature{
		{Coords: []geo.Coordinate{c(1.000, 103.000), c(1.001, 103.000), c(1.002, 103.000)}},
		{Coords: []geo.Coordinate{c(5.000, 110.000), c(5.001, 110.000)}}, // isolated pair
	}
	g, err := graph.Build(features, 5.0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	idx := Build(g, Options{FilterToLargestComponent: true})
	if idx.Len() != 3 {
		t.Fatalf("filtered index has %d nodes, want 3", idx.Len())
	}

	full := Build(g, Options{FilterToLargestComponent: false})
	if full.Len() != 5 {
		t.Fatalf("unfiltered index has %d nodes, want 5", full.Len())
	}
}
