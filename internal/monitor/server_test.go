package monitor

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/argus-vis/threatglobe/internal/threat"
	"github.com/argus-vis/threatglobe/internal/viz"
)

func newTestManager(t *testing.T, n int) *viz.Manager {
	t.Helper()
	cfg := viz.DefaultConfig()
	cfg.Heatmap.Width = 64
	cfg.Heatmap.Height = 32

	m := viz.NewManager(cfg, nil)
	records := make([]threat.Record, n)
	for i := range records {
		records[i] = threat.Record{
			ID:       fmt.Sprintf("rec-%03d", i),
			Lat:      float64(i%18)*10 - 85,
			Lon:      float64(i%36)*10 - 175,
			Category: threat.CategoryPhishing,
			Severity: 1 + i%10,
		}
	}
	m.SetRecords(records)
	m.Update(25, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	return m
}

func TestHandleSnapshot(t *testing.T) {
	ws := NewWebServer(newTestManager(t, 30))

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/viz/snapshot", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if doc["mode"] != "heatmap" {
		t.Errorf("mode = %v, want heatmap", doc["mode"])
	}
	if doc["record_count"].(float64) != 30 {
		t.Errorf("record_count = %v, want 30", doc["record_count"])
	}
	if doc["cluster_count"].(float64) == 0 {
		t.Error("expected nonzero cluster_count")
	}
	if doc["texture_fingerprint"] == "" {
		t.Error("expected a texture fingerprint in the snapshot")
	}
}

func TestHandleHeatmapPNG(t *testing.T) {
	ws := NewWebServer(newTestManager(t, 30))

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/viz/heatmap.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type %q", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not a decodable PNG: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Errorf("unexpected raster size %v", img.Bounds())
	}
}

func TestHandleHeatmapPNG_NoTexture(t *testing.T) {
	// A manager with no records carries no texture.
	m := viz.NewManager(viz.DefaultConfig(), nil)
	m.Update(25, time.Now())
	ws := NewWebServer(m)

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/viz/heatmap.png", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
	var doc map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if doc["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestHandleClusterScatter(t *testing.T) {
	ws := NewWebServer(newTestManager(t, 30))

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/viz/clusters", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "echarts") {
		t.Error("expected an echarts document")
	}
	if !strings.Contains(body, "Threat Cluster Anchors") {
		t.Error("expected the chart title in the document")
	}
}

func TestHandleClusterScatter_Empty(t *testing.T) {
	m := viz.NewManager(viz.DefaultConfig(), nil)
	m.Update(25, time.Now())
	ws := NewWebServer(m)

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/viz/clusters", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestHandleDashboard(t *testing.T) {
	ws := NewWebServer(newTestManager(t, 5))

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/viz/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "threatglobe") {
		t.Error("dashboard body missing title")
	}

	rec = httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/viz/bogus", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status %d, want 404", rec.Code)
	}
}
