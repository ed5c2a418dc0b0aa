package routing

import (
	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/spatial"
)

// nearestAlternatesK is the number of alternate snap candidates considered
// by the A* fallback ladder's first step.
const nearestAlternatesK = 5

// snapWaypoints maps each sparse waypoint to its nearest node in idx,
// deduplicating consecutive identical snaps.
func snapWaypoints(idx *spatial.Index, waypoints []geo.Coordinate) ([]graph.NodeID, error) {
	out := make([]graph.NodeID, 0, len(waypoints))
	for _, wp := range waypoints {
		id, err := idx.FindNearest(wp)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1] != id {
			out = append(out, id)
		}
	}
	return out, nil
}
