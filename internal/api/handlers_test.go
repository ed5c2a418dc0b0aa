package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kojo8888/stravart-sub001/internal/geo"
	"github.com/kojo8888/stravart-sub001/internal/graph"
	"github.com/kojo8888/stravart-sub001/internal/ingest"
	"github.com/kojo8888/stravart-sub001/internal/spatial"
	"github.com/kojo8888/stravart-sub001/internal/store"
)

var handlerGridOrigin = geo.Coordinate{Lat: 1.3000, Lng: 103.8000}

func testHolder(t *testing.T, fail bool) *store.Holder {
	t.Helper()
	return store.New(func() (*graph.StreetGraph, *spatial.Index, ingest.Stats, error) {
		if fail {
			return nil, nil, ingest.Stats{}, graph.ErrGraphBuildFailed
		}
		coordAt := func(i, j int) geo.Coordinate {
			return geo.Unproject(float64(i)*100, float64(j)*100, handlerGridOrigin)
		}
		var features []ingest.LineFeature
		for i := 0; i < 10; i++ {
			for j := 0; j < 10; j++ {
				if i+1 < 10 {
					features = append(features, ingest.LineFeature{Coords: []geo.Coordinate{coordAt(i, j), coordAt(i+1, j)}})
				}
				if j+1 < 10 {
					features = append(features, ingest.LineFeature{Coords: []geo.Coordinate{coordAt(i, j), coordAt(i, j+1)}})
				}
			}
		}
		g, err := graph.Build(features, 2.5)
		if err != nil {
			return nil, nil, ingest.Stats{}, err
		}
		return g, spatial.Build(g), ingest.Stats{FeaturesRead: len(features)}, nil
	})
}

func TestHandleRouteSuccess(t *testing.T) {
	h := NewHandlers(testHolder(t, false))

	// targetDistanceKm 0.1 hits the square's 400 m radius floor, so the
	// center sits mid-grid on the 900 m test grid.
	body := `{"center":{"lat":1.3040,"lng":103.8040},"shape":"square","targetDistanceKm":0.1}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
	var resp RouteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalDistanceMeters <= 0 {
		t.Error("expected positive total distance")
	}
	if len(resp.Segments) == 0 {
		t.Error("expected at least one segment")
	}
}

func TestHandleRouteInvalidJSON(t *testing.T) {
	h := NewHandlers(testHolder(t, false))

	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRouteMissingContentType(t *testing.T) {
	h := NewHandlers(testHolder(t, false))

	body := `{"center":{"lat":1.3,"lng":103.8},"shape":"circle","targetDistanceKm":0.1}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRouteOutOfBounds(t *testing.T) {
	h := NewHandlers(testHolder(t, false))

	body := `{"center":{"lat":91.0,"lng":103.8},"shape":"circle","targetDistanceKm":0.1}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRouteInvalidShape(t *testing.T) {
	h := NewHandlers(testHolder(t, false))

	body := `{"center":{"lat":1.3,"lng":103.8},"shape":"triangle","targetDistanceKm":0.1}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRouteGraphUnavailable(t *testing.T) {
	h := NewHandlers(testHolder(t, true))

	body := `{"center":{"lat":1.3,"lng":103.8},"shape":"circle","targetDistanceKm":0.1}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(testHolder(t, false))

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want 'ok'", resp.Status)
	}
}

func TestHandleStatsBeforeBuild(t *testing.T) {
	h := NewHandlers(testHolder(t, false))

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Ready {
		t.Error("expected ready=false before any build has run")
	}
}

func TestHandleStatsAfterBuild(t *testing.T) {
	h := NewHandlers(testHolder(t, false))
	if _, _, err := h.holder.Get(); err != nil {
		t.Fatalf("Get: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Ready || resp.NumNodes != 100 {
		t.Errorf("resp = %+v, want ready with 100 nodes", resp)
	}
}
