// Package viz owns the visualization orchestrator (the Manager).
//
// Responsibilities: composing the zoom tracker, spatial clusterer and
// heatmap synthesizer; per-frame cross-fade opacity smoothing; and the
// throttled recompute of the expensive derived values (clusters, texture).
//
// The Manager is the only component permitted to call both the clusterer
// and the synthesizer. Opacity smoothing runs every frame; clustering and
// texture synthesis are gated behind a last-computed-at guard because both
// are O(records) or worse and must not regress frame time.
package viz
