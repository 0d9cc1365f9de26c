// Package monitor provides debugging-only HTTP endpoints and offline plots
// for the visualization pipeline. Nothing here is part of the render path;
// handlers read the orchestrator's last snapshot and never mutate it.
package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/argus-vis/threatglobe/internal/viz"
)

// WebServer exposes the debug endpoints. No auth; bind it to localhost.
type WebServer struct {
	mgr *viz.Manager
	mux *http.ServeMux
}

// NewWebServer creates a debug server over the given manager.
func NewWebServer(mgr *viz.Manager) *WebServer {
	ws := &WebServer{
		mgr: mgr,
		mux: http.NewServeMux(),
	}
	ws.mux.HandleFunc("/debug/viz/", ws.handleDashboard)
	ws.mux.HandleFunc("/debug/viz/snapshot", ws.handleSnapshot)
	ws.mux.HandleFunc("/debug/viz/heatmap.png", ws.handleHeatmapPNG)
	ws.mux.HandleFunc("/debug/viz/clusters", ws.handleClusterScatter)
	return ws
}

// Handler returns the underlying mux for embedding into another server.
func (ws *WebServer) Handler() http.Handler {
	return ws.mux
}

// ListenAndServe starts the debug server. Blocks.
func (ws *WebServer) ListenAndServe(addr string) error {
	log.Printf("[Monitor] debug endpoints on http://%s/debug/viz/", addr)
	return http.ListenAndServe(addr, ws.mux)
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// snapshotDoc is the wire form of a pipeline snapshot.
type snapshotDoc struct {
	Mode          string  `json:"mode"`
	Progress      float64 `json:"progress"`
	RawProgress   float64 `json:"raw_progress"`
	Transitioning bool    `json:"transitioning"`
	Distance      float64 `json:"distance"`
	Band          int     `json:"band"`
	HeatOpacity   float64 `json:"heat_opacity"`
	PixelOpacity  float64 `json:"pixel_opacity"`
	RecordCount   int     `json:"record_count"`
	ClusterCount  int     `json:"cluster_count"`
	TextureFP     string  `json:"texture_fingerprint,omitempty"`
}

// handleSnapshot serves the current pipeline state as JSON.
func (ws *WebServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := ws.mgr.Snapshot()
	doc := snapshotDoc{
		Mode:          snap.Zoom.Mode.String(),
		Progress:      snap.Zoom.Progress,
		RawProgress:   snap.Zoom.RawProgress,
		Transitioning: snap.Zoom.Transitioning,
		Distance:      snap.Zoom.Distance,
		Band:          int(snap.Band),
		HeatOpacity:   snap.HeatOpacity,
		PixelOpacity:  snap.PixelOpacity,
		RecordCount:   snap.RecordCount,
		ClusterCount:  len(snap.Clusters),
	}
	if snap.Texture != nil {
		doc.TextureFP = snap.Texture.Fingerprint
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

// handleHeatmapPNG serves the current heat-field raster.
func (ws *WebServer) handleHeatmapPNG(w http.ResponseWriter, r *http.Request) {
	snap := ws.mgr.Snapshot()
	if snap.Texture == nil || snap.Texture.Released() {
		ws.writeJSONError(w, http.StatusNotFound, "no heatmap texture resident")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, snap.Texture.Image); err != nil {
		log.Printf("[Monitor] heatmap encode failed: %v", err)
	}
}

// handleClusterScatter renders a quick scatter (HTML) of cluster anchors on
// the equatorial plane using go-echarts. Debugging-only, to eyeball cluster
// density without the full globe renderer.
func (ws *WebServer) handleClusterScatter(w http.ResponseWriter, r *http.Request) {
	snap := ws.mgr.Snapshot()
	if len(snap.Clusters) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "no clusters available")
		return
	}

	data := make([]opts.ScatterData, 0, len(snap.Clusters))
	maxAbs := 0.0
	maxSev := 0.0
	for _, c := range snap.Clusters {
		// Project onto the X/Z plane; Y (the pole axis) becomes color.
		x, y := c.Anchor.X, c.Anchor.Z
		if abs(x) > maxAbs {
			maxAbs = abs(x)
		}
		if abs(y) > maxAbs {
			maxAbs = abs(y)
		}
		if c.AggregateSeverity > maxSev {
			maxSev = c.AggregateSeverity
		}
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, c.AggregateSeverity}})
	}

	// Add a small padding so points at the edges are visible
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxSev == 0 {
		maxSev = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Threat Clusters (World XZ)", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Threat Cluster Anchors", Subtitle: fmt.Sprintf("clusters=%d band=%d mode=%s", len(data), int(snap.Band), snap.Zoom.Mode)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Z", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxSev),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#ffd54f", "#ffb300", "#ff8f00", "#f4511e", "#d32f2f", "#b71c1c"}},
		}),
	)

	scatter.AddSeries("clusters", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleDashboard renders a simple dashboard with iframes to the debug views.
func (ws *WebServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/debug/viz/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head><title>threatglobe debug</title>
<style>body{background:#111;color:#ddd;font-family:monospace} iframe{border:1px solid #333;background:#fff}</style>
</head>
<body>
<h2>threatglobe visualization debug</h2>
<p><a href="/debug/viz/snapshot">snapshot JSON</a></p>
<iframe src="/debug/viz/heatmap.png" width="1040" height="540"></iframe>
<iframe src="/debug/viz/clusters" width="920" height="920"></iframe>
</body>
</html>`

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
