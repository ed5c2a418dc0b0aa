package routing

import "errors"

var (
	// ErrNoPath means all A* attempts between a waypoint pair failed,
	// including the fallback ladder.
	ErrNoPath = errors.New("routing: no path found between waypoints")
	// ErrRouteEmpty means no segments were produced at all.
	ErrRouteEmpty = errors.New("routing: route has no segments")
	// ErrCancelled means the caller's cancellation channel tripped.
	ErrCancelled = errors.New("routing: cancelled")
)
