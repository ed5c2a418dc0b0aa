// Command preview serves a small static page and a single-request endpoint
// that calls the in-process router directly for one shape/center/distance
// combination, so a generated loop can be inspected on a map without
// standing up the full HTTP API.
package main

import (
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
	"github.com/kojo8888/stravart-sub001/internal/routing"
	"github.com/kojo8888/stravart-sub001/internal/shape"
	"github.com/kojo8888/stravart-sub001/internal/spatial"
	"github.com/kojo8888/stravart-sub001/internal/store"
)

//go:embed static
var staticFiles embed.FS

type previewRequest struct {
	Center           latlng  `json:"center"`
	Shape            string  `json:"shape"`
	TargetDistanceKm float64 `json:"targetDistanceKm"`
}

type latlng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type previewResponse struct {
	DistanceMeters float64     `json:"distanceMeters"`
	Geometry       [][]float64 `json:"geometry"` // [[lat, lng], ...]
	Diagnostics    string      `json:"diagnostics,omitempty"`
	Error          string      `json:"error,omitempty"`
}

func main() {
	port := flag.Int("port", 3000, "HTTP port to serve on")
	graphPath := flag.String("graph", "", "Path to a GeoJSON feature collection (always read as GeoJSON; .osm.pbf is not supported)")
	flag.Parse()

	if *graphPath == "" {
		log.Fatal("Usage: preview --graph <file.geojson> [--port 3000]")
	}

	holder := store.New(func() (*graph.StreetGraph, *spatial.Index, ingest.Stats, error) {
		features, _, err := ingest.LoadGeoJSON(*graphPath)
		if err != nil {
			return nil, nil, ingest.Stats{}, err
		}
		g, err := graph.Build(features, graph.DefaultMergeThresholdMeters)
		if err != nil {
			return nil, nil, ingest.Stats{}, err
		}
		return g, spatial.Build(g), ingest.Stats{}, nil
	})

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(staticFS)))
	mux.HandleFunc("/api/preview", handlePreview(holder))

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Preview server starting on http://localhost:%d", *port)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func handlePreview(holder *store.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writePreviewError(w, "invalid request body")
			return
		}

		shapeType, ok := shape.ParseShapeType(req.Shape)
		if !ok {
			writePreviewError(w, "unknown shape: "+req.Shape)
			return
		}

		g, idx, err := holder.Get()
		if err != nil {
			writePreviewError(w, fmt.Sprintf("graph unavailable: %v", err))
			return
		}

		center := geo.Coordinate{Lat: req.Center.Lat, Lng: req.Center.Lng}
		radius := shape.RadiusHeuristic(shapeType, req.TargetDistanceKm)

		route, err := routing.Route(g, idx, center, shapeType, radius, routing.Options{})
		if err != nil {
			writePreviewError(w, err.Error())
			return
		}

		var geometry [][]float64
		for _, seg := range route.Segments {
			for _, pt := range seg.Polyline {
				geometry = append(geometry, []float64{pt.Lat, pt.Lng})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(previewResponse{
			DistanceMeters: route.TotalLengthMeters,
			Geometry:       geometry,
			Diagnostics:    fmt.Sprintf("relaxed=%d alt=%d skipped=%d closed=%v", route.Diagnostics.RelaxedLegs, route.Diagnostics.AlternateSnapLegs, route.Diagnostics.SkippedLegs, route.Diagnostics.Closed),
		})
	}
}

func writePreviewError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(previewResponse{Error: msg})
}
