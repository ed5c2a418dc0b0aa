// Package store provides a process-wide lazy holder for the two immutable,
// read-only structures every request shares: the StreetGraph and its
// spatial index.
package store

import (
	"log"
	"sync"

	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
	"github.com/kojo8888/stravart-sub001/internal/spatial"
)

type state int

const (
	stateEmpty state = iota
	stateBuilding
	stateReady
	stateFailed
)

// BuildFunc loads features and constructs the graph + index pair. Holder
// calls it at most once per successful build; a failed build is retried on
// the next Get call.
type BuildFunc func() (*graph.StreetGraph, *spatial.Index, ingest.Stats, error)

// BuildStats is the diagnostic summary of one successful graph build:
// ingestion counts plus the resulting graph's size and connectivity.
type BuildStats struct {
	FeaturesRead         int
	FeaturesSkipped      int
	NumNodes             int
	NumEdges             int
	LargestComponentSize int
}

// Holder lazily builds and caches the graph + spatial index pair.
//
// Deliberately not sync.Once: a build failure (e.g. a transient read error
// on the graph source) must not poison every subsequent request forever —
// the next caller needs to be able to retry the build.
type Holder struct {
	mu    sync.Mutex
	cond  *sync.Cond
	st    state
	build BuildFunc

	g       *graph.StreetGraph
	idx     *spatial.Index
	stats   BuildStats
	lastErr error
}

// New creates a Holder that calls build on first use.
func New(build BuildFunc) *Holder {
	h := &Holder{build: build, st: stateEmpty}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Get returns the cached graph and index, building them on first call.
// Concurrent callers during a build coalesce onto the single in-flight
// build rather than each starting their own.
func (h *Holder) Get() (*graph.StreetGraph, *spatial.Index, error) {
	h.mu.Lock()
	for h.st == stateBuilding {
		h.cond.Wait()
	}

	switch h.st {
	case stateReady:
		g, idx := h.g, h.idx
		h.mu.Unlock()
		return g, idx, nil
	case stateFailed, stateEmpty:
		h.st = stateBuilding
		h.mu.Unlock()

		g, idx, ingestStats, err := h.build()

		h.mu.Lock()
		defer h.mu.Unlock()
		if err != nil {
			h.st = stateFailed
			h.lastErr = err
			h.cond.Broadcast()
			return nil, nil, err
		}
		largest := len(graph.LargestComponentSet(g))
		h.g, h.idx = g, idx
		h.stats = BuildStats{
			FeaturesRead:         ingestStats.FeaturesRead,
			FeaturesSkipped:      ingestStats.FeaturesSkipped,
			NumNodes:             g.Order(),
			NumEdges:             g.Size(),
			LargestComponentSize: largest,
		}
		h.st = stateReady
		log.Printf("store: build complete: %d features read, %d skipped, %d nodes, %d edges, largest component %d",
			h.stats.FeaturesRead, h.stats.FeaturesSkipped, h.stats.NumNodes, h.stats.NumEdges, h.stats.LargestComponentSize)
		h.cond.Broadcast()
		return g, idx, nil
	default:
		h.mu.Unlock()
		return nil, nil, h.lastErr
	}
}

// Stats returns the diagnostic summary of the last successful build, and
// whether a build has completed successfully yet.
func (h *Holder) Stats() (BuildStats, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats, h.st == stateReady
}
