package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kojo8888/stravart-sub001/internal/api"
	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
	"github.com/kojo8888/stravart-sub001/internal/spatial"
	"github.com/kojo8888/stravart-sub001/internal/store"
)

func main() {
	graphPath := flag.String("graph", "", "Path to a GeoJSON feature collection or .osm.pbf extract")
	mergeThreshold := flag.Float64("merge-threshold", graph.DefaultMergeThresholdMeters, "Endpoint merge threshold in meters")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: server --graph <file.geojson|file.osm.pbf> [--port 8080]")
		os.Exit(1)
	}

	holder := store.New(func() (*graph.StreetGraph, *spatial.Index, ingest.Stats, error) {
		return buildGraph(*graphPath, *mergeThreshold)
	})

	// Build eagerly at startup so a misconfigured graph source fails fast,
	// rather than surfacing on the first incoming request.
	g, _, err := holder.Get()
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	log.Printf("Ready: %d nodes, %d edges", g.Order(), g.Size())

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(holder)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
