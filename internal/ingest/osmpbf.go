package ingest

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/kojo8888/stravart-sub001/internal/geo"
)

// carHighways lists highway tag values accessible by car, used as a proxy
// for "on-street and rideable" — the same filter the host's road network
// uses for its base corpus of line features.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

func isCarAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}
	if tags.Find("area") == "yes" {
		return false
	}
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}
	return true
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward = true
	backward = true

	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward = true
		backward = false
	case "-1", "reverse":
		forward = false
		backward = true
	case "no":
		forward = true
		backward = true
	case "reversible":
		forward = false
		backward = false
	}

	return forward, backward
}

// wayInfo holds parsed way data collected during Pass 1.
type wayInfo struct {
	nodeIDs  []osm.NodeID
	tag      string
	forward  bool
	backward bool
}

// OSMOptions configures the OSM PBF loader.
type OSMOptions struct {
	BBox BBox
}

// LoadOSMPBF reads an OSM PBF extract and returns car-accessible ways as
// line features. The reader is consumed twice (seeks back to start for the
// second pass), so it must implement io.ReadSeeker. A bidirectional way
// yields two LineFeatures with the same polyline, one per direction; the
// graph builder turns them into two parallel undirected edges between the
// same nodes. Traversal direction is decided per-request by the router.
func LoadOSMPBF(ctx context.Context, rs io.ReadSeeker, opts ...OSMOptions) ([]LineFeature, Stats, error) {
	var opt OSMOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	useBBox := !opt.BBox.IsZero()

	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		w, ok := obj.(*osm.Way)
		if !ok {
			continue
		}
		if !isCarAccessible(w.Tags) {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}
		fwd, bwd := directionFlags(w.Tags)
		if !fwd && !bwd {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}

		ways = append(ways, wayInfo{
			nodeIDs:  nodeIDs,
			tag:      w.Tags.Find("highway"),
			forward:  fwd,
			backward: bwd,
		})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, Stats{}, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("ingest: osm pass 1 complete: %d ways, %d referenced nodes", len(ways), len(referencedNodes))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, Stats{}, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodeCoord := make(map[osm.NodeID]geo.Coordinate, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		n, ok := obj.(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeCoord[n.ID] = geo.Coordinate{Lat: n.Lat, Lng: n.Lon}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, Stats{}, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("ingest: osm pass 2 complete: %d node coordinates collected", len(nodeCoord))

	stats := Stats{FeaturesRead: len(ways)}
	var features []LineFeature

	for _, w := range ways {
		coords := make([]geo.Coordinate, 0, len(w.nodeIDs))
		for _, id := range w.nodeIDs {
			c, ok := nodeCoord[id]
			if !ok {
				coords = nil
				break
			}
			coords = append(coords, c)
		}
		if len(coords) < 2 {
			stats.FeaturesSkipped++
			continue
		}
		if useBBox && (!opt.BBox.Contains(coords[0]) || !opt.BBox.Contains(coords[len(coords)-1])) {
			continue
		}

		if w.forward {
			features = append(features, LineFeature{Coords: coords, Classification: w.tag})
		}
		if w.backward {
			reversed := make([]geo.Coordinate, len(coords))
			for i, c := range coords {
				reversed[len(coords)-1-i] = c
			}
			features = append(features, LineFeature{Coords: reversed, Classification: w.tag})
		}
	}

	log.Printf("ingest: produced %d line features from %d ways (%d skipped)", len(features), len(ways), stats.FeaturesSkipped)

	return features, stats, nil
}
