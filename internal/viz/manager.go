package viz

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/argus-vis/threatglobe/internal/cluster"
	"github.com/argus-vis/threatglobe/internal/heatmap"
	"github.com/argus-vis/threatglobe/internal/threat"
	"github.com/argus-vis/threatglobe/internal/zoom"
)

// Constants for orchestrator configuration.
const (
	// DefaultOpacitySmoothing is the per-frame linear interpolation factor
	// driving layer opacities toward their targets.
	DefaultOpacitySmoothing = 0.18
	// DefaultRecomputeInterval bounds how often clustering and texture
	// synthesis may run (~20 Hz).
	DefaultRecomputeInterval = 50 * time.Millisecond
	// DefaultOpacityEpsilon is the threshold below which a layer counts
	// as fully faded out and its recompute work is skipped.
	DefaultOpacityEpsilon = 0.01
)

// Config carries the orchestrator tunables together with the nested
// component configurations. Zero values select the defaults.
type Config struct {
	Zoom    zoom.Config
	Cluster cluster.Config
	Heatmap heatmap.Config

	OpacitySmoothing  float64       // Per-frame lerp factor (default: 0.18)
	RecomputeInterval time.Duration // Min spacing of recomputes (default: 50ms)
	OpacityEpsilon    float64       // Faded-out threshold (default: 0.01)
}

// DefaultConfig returns the baseline orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		Zoom:              zoom.DefaultConfig(),
		Cluster:           cluster.DefaultConfig(),
		Heatmap:           heatmap.DefaultConfig(),
		OpacitySmoothing:  DefaultOpacitySmoothing,
		RecomputeInterval: DefaultRecomputeInterval,
		OpacityEpsilon:    DefaultOpacityEpsilon,
	}
}

func (c Config) withDefaults() Config {
	if c.OpacitySmoothing <= 0 || c.OpacitySmoothing > 1 {
		c.OpacitySmoothing = DefaultOpacitySmoothing
	}
	if c.RecomputeInterval <= 0 {
		c.RecomputeInterval = DefaultRecomputeInterval
	}
	if c.OpacityEpsilon <= 0 {
		c.OpacityEpsilon = DefaultOpacityEpsilon
	}
	return c
}

// Manager composes the zoom tracker, clusterer and synthesizer into the
// per-frame visualization pipeline.
//
// Update must be called from a single frame thread. The mutex exists only so
// debug collaborators (the monitor's HTTP handlers) can read the last
// snapshot from other goroutines; it never guards the frame path against
// itself.
type Manager struct {
	cfg       Config
	tracker   *zoom.Tracker
	clusterer *cluster.Clusterer
	synth     *heatmap.Synthesizer
	surface   RenderSurface

	records     []threat.Record
	fingerprint string
	dirty       bool

	heatOpacity   float64
	pixelOpacity  float64
	clusters      []cluster.Cluster
	texture       *heatmap.Texture
	band          cluster.Band
	haveBand      bool
	lastRecompute time.Time

	mu   sync.Mutex
	last Snapshot
}

// NewManager creates a Manager. surface may be nil when the caller consumes
// snapshots directly.
func NewManager(cfg Config, surface RenderSurface) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		cfg:         cfg,
		tracker:     zoom.NewTracker(cfg.Zoom),
		clusterer:   cluster.NewClusterer(cfg.Cluster),
		synth:       heatmap.NewSynthesizer(cfg.Heatmap),
		surface:     surface,
		heatOpacity: 1.0, // far view is the initial state
	}
}

// Config returns the effective configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// SetRecords replaces the visible record set wholesale (there is no
// incremental diff API). Records are normalized on ingest; a set whose
// fingerprint matches the current one is a no-op, so repeated pushes of an
// unchanged feed cost nothing.
func (m *Manager) SetRecords(records []threat.Record) {
	normalized := threat.NormalizeAll(append([]threat.Record(nil), records...))
	fp := threat.Fingerprint(normalized)
	if fp == m.fingerprint && len(normalized) == len(m.records) {
		return
	}
	m.records = normalized
	m.fingerprint = fp
	m.dirty = true
	log.Printf("[Viz] record set replaced: %d records", len(normalized))
}

// Update advances the pipeline by one frame: samples the zoom state machine,
// lerps the layer opacities, and runs the throttled cluster/texture
// recompute when the inputs changed and the rate guard allows it.
func (m *Manager) Update(cameraDistance float64, now time.Time) Snapshot {
	state, modeChanged := m.tracker.Update(cameraDistance, now)
	if modeChanged {
		log.Printf("[Viz] mode -> %s (distance=%.2f progress=%.2f)",
			state.Mode, cameraDistance, state.Progress)
	}

	// Opacity smoothing runs every frame regardless of recompute gating:
	// even a binary mode switch must appear as a smooth cross-fade.
	m.heatOpacity = lerpSnap(m.heatOpacity, 1.0-state.Progress, m.cfg.OpacitySmoothing)
	m.pixelOpacity = lerpSnap(m.pixelOpacity, state.Progress, m.cfg.OpacitySmoothing)

	band := m.cfg.Cluster.BandForDistance(cameraDistance)
	bandChanged := !m.haveBand || band != m.band

	if (m.dirty || bandChanged) && m.allowRecompute(now) {
		m.recompute(band, state, now)
	}

	snap := Snapshot{
		Zoom:         state,
		Band:         m.band,
		HeatOpacity:  m.heatOpacity,
		PixelOpacity: m.pixelOpacity,
		Clusters:     m.clusters,
		Texture:      m.texture,
		RecordCount:  len(m.records),
	}

	m.mu.Lock()
	m.last = snap
	m.mu.Unlock()

	if m.surface != nil {
		m.surface.SetZoomState(state.Mode, state.Progress)
		m.surface.SetHeatLayer(m.texture, m.heatOpacity)
		m.surface.SetPixelLayer(m.clusters, m.pixelOpacity)
	}

	return snap
}

// Snapshot returns the state produced by the most recent Update. Safe to
// call from goroutines other than the frame thread.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// allowRecompute is the last-computed-at rate guard.
func (m *Manager) allowRecompute(now time.Time) bool {
	if m.lastRecompute.IsZero() {
		return true
	}
	return now.Sub(m.lastRecompute) >= m.cfg.RecomputeInterval
}

// recompute rebuilds the derived values for the current band.
func (m *Manager) recompute(band cluster.Band, state zoom.State, now time.Time) {
	m.band = band
	m.haveBand = true
	m.dirty = false
	m.lastRecompute = now

	m.clusters = m.clusterer.Cluster(m.records, band)

	if len(m.records) == 0 {
		// Empty set: suppress the heat layer entirely rather than
		// synthesizing a blank raster.
		m.texture = nil
		return
	}

	// Skip the synthesizer while the heat layer is fully faded out and not
	// fading back in; the previous texture stays resident (stale but
	// valid) and invisible.
	heatTarget := 1.0 - state.Progress
	if m.heatOpacity < m.cfg.OpacityEpsilon && heatTarget < m.cfg.OpacityEpsilon {
		return
	}

	m.texture = m.synth.Synthesize(m.records)
}

// lerpSnap moves cur toward target by factor, snapping when the remaining
// distance is below visual threshold so opacities settle exactly at their
// targets.
func lerpSnap(cur, target, factor float64) float64 {
	next := cur + (target-cur)*factor
	if math.Abs(target-next) < 1e-4 {
		return target
	}
	return next
}
