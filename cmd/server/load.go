package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
	"github.com/kojo8888/stravart-sub001/internal/spatial"
)

// buildGraph loads line features from path (dispatching on file extension),
// builds the street graph, and bulk-loads its spatial index.
func buildGraph(path string, mergeThresholdMeters float64) (*graph.StreetGraph, *spatial.Index, ingest.Stats, error) {
	var features []ingest.LineFeature
	var stats ingest.Stats
	var err error

	switch {
	case strings.HasSuffix(path, ".osm.pbf"):
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, nil, ingest.Stats{}, openErr
		}
		defer f.Close()
		features, stats, err = ingest.LoadOSMPBF(context.Background(), f)
	default:
		features, stats, err = ingest.LoadGeoJSON(path)
	}
	if err != nil {
		return nil, nil, ingest.Stats{}, fmt.Errorf("loading %s: %w", path, err)
	}

	g, err := graph.Build(features, mergeThresholdMeters)
	if err != nil {
		return nil, nil, stats, err
	}
	if len(graph.LargestComponentSet(g)) < graph.MinLargestComponent {
		return nil, nil, stats, graph.ErrEmptyLargestComponent
	}

	idx := spatial.Build(g)
	return g, idx, stats, nil
}
