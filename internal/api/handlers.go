package api

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/routing"
	"github.com/kojo8888/stravart-sub001/internal/shape"
	"github.com/kojo8888/stravart-sub001/internal/store"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	holder *store.Holder
}

// NewHandlers creates handlers backed by the given lazy graph/index holder.
func NewHandlers(holder *store.Holder) *Handlers {
	return &Handlers{holder: holder}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	if err := validateCoord(req.Center); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "center")
		return
	}
	shapeType, ok := shape.ParseShapeType(req.Shape)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_shape", "shape")
		return
	}
	if req.TargetDistanceKm <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_distance", "targetDistanceKm")
		return
	}

	g, idx, err := h.holder.Get()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "graph_unavailable", "")
		return
	}

	radiusMeters := shape.RadiusHeuristic(shapeType, req.TargetDistanceKm)
	opts := routingOptionsFrom(req.Options, r.Context().Done())

	center := geo.Coordinate{Lat: req.Center.Lat, Lng: req.Center.Lng}
	route, err := routing.Route(g, idx, center, shapeType, radiusMeters, opts)
	if err != nil {
		switch {
		case errors.Is(err, routing.ErrRouteEmpty):
			writeError(w, http.StatusUnprocessableEntity, "route_empty", "")
		case errors.Is(err, routing.ErrCancelled):
			writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
		case errors.Is(err, graph.ErrEmptyLargestComponent), errors.Is(err, graph.ErrGraphBuildFailed):
			writeError(w, http.StatusServiceUnavailable, "graph_unavailable", "")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "")
		}
		return
	}

	resp := RouteResponse{
		TotalDistanceMeters: route.TotalLengthMeters,
		Diagnostics: DiagnosticsJSON{
			RelaxedLegs:       route.Diagnostics.RelaxedLegs,
			AlternateSnapLegs: route.Diagnostics.AlternateSnapLegs,
			SkippedLegs:       route.Diagnostics.SkippedLegs,
			Closed:            route.Diagnostics.Closed,
		},
	}
	for _, seg := range route.Segments {
		geomPts := make([]LatLngJSON, len(seg.Polyline))
		for i, c := range seg.Polyline {
			geomPts[i] = LatLngJSON{Lat: c.Lat, Lng: c.Lng}
		}
		resp.Segments = append(resp.Segments, SegmentJSON{
			DistanceMeters: seg.LengthMeters,
			Geometry:       geomPts,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, ready := h.holder.Stats()
	resp := StatsResponse{
		Ready:                ready,
		FeaturesRead:         stats.FeaturesRead,
		FeaturesSkipped:      stats.FeaturesSkipped,
		NumNodes:             stats.NumNodes,
		NumEdges:             stats.NumEdges,
		LargestComponentSize: stats.LargestComponentSize,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func routingOptionsFrom(o *RouteOptionsJSON, cancel <-chan struct{}) routing.Options {
	opts := routing.Options{Cancel: cancel}
	if o == nil {
		return opts
	}
	opts.CorridorWidthMeters = o.CorridorWidthMeters
	opts.DirectionPenalty = o.DirectionPenalty
	opts.WaypointCount = o.WaypointCount
	if o.CloseLoop != nil {
		opts.CloseLoopSet = true
		opts.CloseLoop = *o.CloseLoop
	}
	return opts
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
