package store

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
	"github.com/kojo8888/stravart-sub001/internal/spatial"
)

func tinyGraph(t *testing.T) *graph.StreetGraph {
	t.Helper()
	c := func(lat, lng float64) geo.Coordinate { return geo.Coordinate{Lat: lat, Lng: lng} }
	g, err := graph.Build([]ingest.LineFeature{
		{Coords: []geo.Coordinate{c(1, 103), c(1.01, 103)}},
	}, 5.0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestHolderBuildsOnce(t *testing.T) {
	g := tinyGraph(t)
	idx := spatial.Build(g)
	var calls int32

	h := New(func() (*graph.StreetGraph, *spatial.Index, ingest.Stats, error) {
		atomic.AddInt32(&calls, 1)
		return g, idx, ingest.Stats{FeaturesRead: 1}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gotG, gotIdx, err := h.Get()
			if err != nil {
				t.Errorf("Get: %v", err)
			}
			if gotG != g || gotIdx != idx {
				t.Error("Get returned unexpected graph/index pointers")
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("build called %d times, want 1", calls)
	}

	stats, ready := h.Stats()
	if !ready {
		t.Fatal("expected ready after successful build")
	}
	if stats.FeaturesRead != 1 {
		t.Errorf("stats.FeaturesRead = %d, want 1", stats.FeaturesRead)
	}
}

func TestHolderRetriesAfterFailure(t *testing.T) {
	g := tinyGraph(t)
	idx := spatial.Build(g)
	attempt := 0
	wantErr := errors.New("transient")

	h := New(func() (*graph.StreetGraph, *spatial.Index, ingest.Stats, error) {
		attempt++
		if attempt == 1 {
			return nil, nil, ingest.Stats{}, wantErr
		}
		return g, idx, ingest.Stats{}, nil
	})

	if _, _, err := h.Get(); !errors.Is(err, wantErr) {
		t.Fatalf("first Get err = %v, want %v", err, wantErr)
	}

	gotG, gotIdx, err := h.Get()
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if gotG != g || gotIdx != idx {
		t.Error("second Get returned unexpected graph/index pointers")
	}
	if attempt != 2 {
		t.Errorf("build attempted %d times, want 2", attempt)
	}
}
