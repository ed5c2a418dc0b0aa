// Package graph builds and represents the undirected, weighted street graph
// the router operates on: nodes with merged co-located endpoints, edges
// carrying polyline geometry and length, and a symmetric adjacency mapping.
package graph

import "github.com/kojo8888/stravart-sub001/internal/geo"

// NodeID identifies a graph node. Stable for the lifetime of a built graph.
type NodeID int

// EdgeID identifies a graph edge. Stable for the lifetime of a built graph.
type EdgeID int

// Node is one canonical intersection or endpoint in the street graph.
type Node struct {
	ID     NodeID
	Coord  geo.Coordinate
	Degree int
}

// Edge is one undirected street segment between two nodes.
type Edge struct {
	ID             EdgeID
	U, V           NodeID
	Polyline       []geo.Coordinate // ordered, includes both endpoints
	Length         float64          // meters, sum of haversine along Polyline
	Classification string           // source tag, preserved for the caller
}

// Midpoint returns the geometric midpoint of the edge's polyline (by arc
// length, not by vertex count), used by the corridor gate and the
// direction-penalty bearing calculation.
func (e *Edge) Midpoint() geo.Coordinate {
	if len(e.Polyline) == 1 {
		return e.Polyline[0]
	}
	half := e.Length / 2
	var acc float64
	for i := 0; i+1 < len(e.Polyline); i++ {
		seg := geo.Haversine(e.Polyline[i], e.Polyline[i+1])
		if acc+seg >= half || i == len(e.Polyline)-2 {
			if seg == 0 {
				return e.Polyline[i]
			}
			t := (half - acc) / seg
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			a, b := e.Polyline[i], e.Polyline[i+1]
			return geo.Coordinate{
				Lat: a.Lat + t*(b.Lat-a.Lat),
				Lng: a.Lng + t*(b.Lng-a.Lng),
			}
		}
		acc += seg
	}
	return e.Polyline[len(e.Polyline)-1]
}

// Other returns the endpoint of e that isn't n.
func (e *Edge) Other(n NodeID) NodeID {
	if e.U == n {
		return e.V
	}
	return e.U
}

// AdjEntry is one adjacency entry: a neighboring node reachable via an edge.
type AdjEntry struct {
	Neighbor NodeID
	Edge     EdgeID
}

// StreetGraph is the undirected weighted street graph.
type StreetGraph struct {
	Nodes     map[NodeID]*Node
	Edges     map[EdgeID]*Edge
	Adjacency map[NodeID][]AdjEntry
}

func newStreetGraph() *StreetGraph {
	return &StreetGraph{
		Nodes:     make(map[NodeID]*Node),
		Edges:     make(map[EdgeID]*Edge),
		Adjacency: make(map[NodeID][]AdjEntry),
	}
}

// Order returns the number of nodes.
func (g *StreetGraph) Order() int { return len(g.Nodes) }

// Size returns the number of edges.
func (g *StreetGraph) Size() int { return len(g.Edges) }

func (g *StreetGraph) addEdge(u, v NodeID, polyline []geo.Coordinate, classification string) {
	if u == v {
		return // self-loop, discarded
	}
	id := EdgeID(len(g.Edges))
	e := &Edge{
		ID:             id,
		U:              u,
		V:              v,
		Polyline:       polyline,
		Length:         geo.PolylineLength(polyline),
		Classification: classification,
	}
	if e.Length <= 0 {
		return
	}
	g.Edges[id] = e
	g.Adjacency[u] = append(g.Adjacency[u], AdjEntry{Neighbor: v, Edge: id})
	g.Adjacency[v] = append(g.Adjacency[v], AdjEntry{Neighbor: u, Edge: id})
	g.Nodes[u].Degree++
	g.Nodes[v].Degree++
}
