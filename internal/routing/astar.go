package routing

import (
	"math"

	"github.com/kojo8888/stravart-sub001/internal/corridor"
	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
)

// Params bundles the constrained A* tunables that stay fixed for a single
// route request.
type Params struct {
	DirectionPenalty float64 // in [0, 1]
	Corridor         *corridor.Model
	Cancel           <-chan struct{} // checked at every pop boundary; nil means never cancel
}

// pathNode is the result of tracing a single constrained A* search.
type pathNode struct {
	nodes []graph.NodeID
	edges []graph.EdgeID
}

// findPath runs constrained A* from start to goal over g, subject to the
// corridor gate and direction-penalty cost in p. Edges whose endpoints or
// midpoint fall outside the active corridor are never considered.
func findPath(g *graph.StreetGraph, start, goal graph.NodeID, p Params) (*pathNode, error) {
	if start == goal {
		return &pathNode{nodes: []graph.NodeID{start}}, nil
	}

	gScore := map[graph.NodeID]float64{start: 0}
	cameFromNode := map[graph.NodeID]graph.NodeID{}
	cameFromEdge := map[graph.NodeID]graph.EdgeID{}
	closed := map[graph.NodeID]bool{}

	goalCoord := g.Nodes[goal].Coord
	h0 := heuristic(g.Nodes[start].Coord, goalCoord, p.DirectionPenalty)

	open := &openHeap{}
	open.Push(start, h0, h0)

	for open.Len() > 0 {
		if cancelled(p.Cancel) {
			return nil, ErrCancelled
		}

		cur := open.Pop()
		if closed[cur.node] {
			continue
		}
		if cur.node == goal {
			return reconstruct(start, goal, cameFromNode, cameFromEdge), nil
		}
		closed[cur.node] = true

		for _, adj := range g.Adjacency[cur.node] {
			if closed[adj.Neighbor] {
				continue
			}
			edge := g.Edges[adj.Edge]
			if !edgeUsable(g, edge, p.Corridor) {
				continue
			}

			cost := edgeCost(g, edge, cur.node, p.Corridor, p.DirectionPenalty)
			tentative := gScore[cur.node] + cost
			if existing, ok := gScore[adj.Neighbor]; ok && tentative >= existing {
				continue
			}

			gScore[adj.Neighbor] = tentative
			cameFromNode[adj.Neighbor] = cur.node
			cameFromEdge[adj.Neighbor] = adj.Edge

			h := heuristic(g.Nodes[adj.Neighbor].Coord, goalCoord, p.DirectionPenalty)
			open.Push(adj.Neighbor, tentative+h, h)
		}
	}

	return nil, ErrNoPath
}

func cancelled(c <-chan struct{}) bool {
	if c == nil {
		return false
	}
	select {
	case <-c:
		return true
	default:
		return false
	}
}

// heuristic is straight-line haversine distance scaled by (1-directionPenalty),
// which never overestimates the true direction-penalized cost since the
// multiplier on any traversed edge is always >= (1-directionPenalty).
func heuristic(from, to geo.Coordinate, directionPenalty float64) float64 {
	return geo.Haversine(from, to) * (1 - directionPenalty)
}

// edgeUsable reports whether edge's endpoints and midpoint are all
// corridor-admissible.
func edgeUsable(g *graph.StreetGraph, e *graph.Edge, c *corridor.Model) bool {
	if c == nil {
		return true
	}
	return c.Admissible(g.Nodes[e.U].Coord) &&
		c.Admissible(g.Nodes[e.V].Coord) &&
		c.Admissible(e.Midpoint())
}

// edgeCost computes the direction-penalized traversal cost of e starting
// from node `from`.
func edgeCost(g *graph.StreetGraph, e *graph.Edge, from graph.NodeID, c *corridor.Model, directionPenalty float64) float64 {
	if directionPenalty == 0 || c == nil {
		return e.Length
	}
	bearing := edgeBearing(e, from)
	tangent := c.TangentBearingNear(e.Midpoint())
	theta := bearing - tangent
	return e.Length * (1 + directionPenalty*(1-math.Cos(theta)))
}

// edgeBearing returns the bearing of e as traversed starting at node from,
// measured start-to-end of the traversed polyline.
func edgeBearing(e *graph.Edge, from graph.NodeID) float64 {
	n := len(e.Polyline)
	if n < 2 {
		return 0
	}
	if from == e.U {
		return geo.Bearing(e.Polyline[0], e.Polyline[n-1])
	}
	return geo.Bearing(e.Polyline[n-1], e.Polyline[0])
}

func reconstruct(start, goal graph.NodeID, cameFromNode map[graph.NodeID]graph.NodeID, cameFromEdge map[graph.NodeID]graph.EdgeID) *pathNode {
	nodes := []graph.NodeID{goal}
	var edges []graph.EdgeID
	cur := goal
	for cur != start {
		edges = append(edges, cameFromEdge[cur])
		cur = cameFromNode[cur]
		nodes = append(nodes, cur)
	}
	// reverse both slices into start->goal order
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return &pathNode{nodes: nodes, edges: edges}
}
