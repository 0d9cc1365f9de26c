// Package heatmap synthesizes the equirectangular heat-field texture used by
// the far zoom mode.
//
// Responsibilities: additive radial-gradient painting, smoothing, and the
// fingerprint-keyed texture cache. Painting is the single most expensive
// operation in the pipeline; the cache exists so that pure camera rotation
// never repaints.
//
// Dependency rule: heatmap may depend on geo and threat, never on cluster,
// zoom or viz.
package heatmap
