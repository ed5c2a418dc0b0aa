package shape

import (
	"github.com/kojo8888/stravart-sub001/internal/geo"
)

// Default sample counts per SPEC_FULL 4.5.
const (
	DefaultDenseCount  = 200
	DefaultSparseCount = 40
)

// Waypoints holds the two resolutions of a shape outline generated around a
// common center: dense samples for corridor construction, sparse waypoints
// for A* endpoints. Both sequences are explicitly closed (first point
// repeated at the end).
type Waypoints struct {
	Dense  []geo.Coordinate
	Sparse []geo.Coordinate
}

// Generate produces Waypoints for shape s of the given radius, centered at
// center, with denseCount/sparseCount samples (defaults applied when <= 0).
func Generate(s ShapeType, center geo.Coordinate, radiusMeters float64, denseCount, sparseCount int) Waypoints {
	if denseCount <= 0 {
		denseCount = DefaultDenseCount
	}
	if sparseCount <= 0 {
		sparseCount = DefaultSparseCount
	}
	p := New(s)
	return Waypoints{
		Dense:  sample(p, center, radiusMeters, denseCount),
		Sparse: sample(p, center, radiusMeters, sparseCount),
	}
}

// sample walks t from 0 to the shape's period in n steps, scales the unit
// point to radiusMeters, and unprojects it to a geographic coordinate. The
// sequence is explicitly closed: t=0 is repeated as the final point.
func sample(p Parametric, center geo.Coordinate, radiusMeters float64, n int) []geo.Coordinate {
	if n < 1 {
		n = 1
	}
	period := p.Period()
	out := make([]geo.Coordinate, 0, n+1)
	for i := 0; i < n; i++ {
		t := period * float64(i) / float64(n)
		x, y := p.PointAt(t)
		out = append(out, geo.Unproject(x*radiusMeters, y*radiusMeters, center))
	}
	out = append(out, out[0])
	return out
}

// TangentBearings returns, for each point in a closed sequence (excluding
// the repeated final point), the bearing from that point to the next,
// wrapping at the end. len(result) == len(points)-1.
func TangentBearings(points []geo.Coordinate) []float64 {
	if len(points) < 2 {
		return nil
	}
	n := len(points) - 1 // exclude the repeated closing point
	bearings := make([]float64, n)
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		bearings[i] = geo.Bearing(points[i], points[next])
	}
	return bearings
}

// radiusOf returns the mean haversine distance of points from center.
func radiusOf(points []geo.Coordinate, center geo.Coordinate) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += geo.Haversine(p, center)
	}
	return sum / float64(len(points))
}
