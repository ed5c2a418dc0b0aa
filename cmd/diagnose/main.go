// Command diagnose builds a street graph from a GeoJSON or OSM PBF source
// and prints ingestion and connectivity diagnostics, without starting a
// server or serializing anything to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
	"github.com/kojo8888/stravart-sub001/internal/spatial"
)

func main() {
	input := flag.String("input", "", "Path to a GeoJSON feature collection or .osm.pbf extract")
	bboxFlag := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng")
	mergeThreshold := flag.Float64("merge-threshold", graph.DefaultMergeThresholdMeters, "Endpoint merge threshold in meters")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: diagnose --input <file.geojson|file.osm.pbf> [--bbox minLat,minLng,maxLat,maxLng]")
		os.Exit(1)
	}

	var bbox ingest.BBox
	if *bboxFlag != "" {
		var minLat, minLng, maxLat, maxLng float64
		if _, err := fmt.Sscanf(*bboxFlag, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
			log.Fatalf("Invalid bbox format (expected minLat,minLng,maxLat,maxLng): %v", err)
		}
		bbox = ingest.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
		log.Printf("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
	}

	start := time.Now()

	var features []ingest.LineFeature
	var stats ingest.Stats
	var err error
	if strings.HasSuffix(*input, ".osm.pbf") {
		f, openErr := os.Open(*input)
		if openErr != nil {
			log.Fatalf("Failed to open input file: %v", openErr)
		}
		defer f.Close()
		features, stats, err = ingest.LoadOSMPBF(context.Background(), f, ingest.OSMOptions{BBox: bbox})
	} else {
		features, stats, err = ingest.LoadGeoJSON(*input, ingest.GeoJSONOptions{BBox: bbox})
	}
	if err != nil {
		log.Fatalf("Failed to load features: %v", err)
	}
	log.Printf("Loaded %d features (%d skipped)", stats.FeaturesRead, stats.FeaturesSkipped)

	log.Println("Building graph...")
	g, err := graph.Build(features, *mergeThreshold)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	log.Printf("Graph: %d nodes, %d edges", g.Order(), g.Size())

	members := graph.LargestComponent(g)
	log.Printf("Largest component: %d nodes (%.1f%%)", len(members), 100*float64(len(members))/float64(g.Order()))

	log.Println("Building spatial index...")
	idx := spatial.Build(g)
	log.Printf("Spatial index: %d nodes indexed", idx.Len())

	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}
