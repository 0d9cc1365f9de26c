// Package cluster owns the spatial aggregation layer of the visualization
// pipeline.
//
// Responsibilities: zoom-band policy (near view renders capped singletons,
// everything else aggregates through a uniform world-space grid), per-cell
// severity and category aggregation, and deterministic truncation to the
// global render budget.
//
// Dependency rule: cluster may depend on geo and threat, never on heatmap,
// zoom or viz.
package cluster
