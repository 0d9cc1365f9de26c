// Package config provides the JSON tuning configuration for the
// visualization pipeline.
//
// All fields are pointers so a partial file only overrides what it names;
// the Get* methods supply the compiled defaults for everything else. The
// same document shape is accepted at startup and from the monitor's debug
// endpoint for runtime inspection.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/argus-vis/threatglobe/internal/cluster"
	"github.com/argus-vis/threatglobe/internal/heatmap"
	"github.com/argus-vis/threatglobe/internal/viz"
	"github.com/argus-vis/threatglobe/internal/zoom"
)

// TuningConfig represents the root configuration for visualization tuning
// parameters.
type TuningConfig struct {
	// Zoom state machine params
	FarBound           *float64 `json:"far_bound,omitempty"`
	NearBound          *float64 `json:"near_bound,omitempty"`
	TransitionDuration *string  `json:"transition_duration,omitempty"` // duration string like "600ms"
	ModeDeadZone       *float64 `json:"mode_dead_zone,omitempty"`

	// Clustering params
	CellSize            *float64 `json:"cell_size,omitempty"`
	SparseCellThreshold *int     `json:"sparse_cell_threshold,omitempty"`
	MaxClusters         *int     `json:"max_clusters,omitempty"`
	BandStep            *float64 `json:"band_step,omitempty"`
	NearBandLimit       *int     `json:"near_band_limit,omitempty"`

	// Heatmap params
	RasterWidth  *int `json:"raster_width,omitempty"`
	RasterHeight *int `json:"raster_height,omitempty"`
	BlurRadius   *int `json:"blur_radius,omitempty"`
	CacheSize    *int `json:"cache_size,omitempty"`

	// Orchestrator params
	OpacitySmoothing  *float64 `json:"opacity_smoothing,omitempty"`
	RecomputeInterval *string  `json:"recompute_interval,omitempty"` // duration string like "50ms"
	OpacityEpsilon    *float64 `json:"opacity_epsilon,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset, so every
// getter falls through to its compiled default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.FarBound != nil && c.NearBound != nil && *c.NearBound >= *c.FarBound {
		return fmt.Errorf("near_bound (%f) must be below far_bound (%f)", *c.NearBound, *c.FarBound)
	}
	if c.ModeDeadZone != nil {
		if *c.ModeDeadZone < 0 || *c.ModeDeadZone >= 1 {
			return fmt.Errorf("mode_dead_zone must be in [0, 1), got %f", *c.ModeDeadZone)
		}
	}
	if c.TransitionDuration != nil && *c.TransitionDuration != "" {
		if _, err := time.ParseDuration(*c.TransitionDuration); err != nil {
			return fmt.Errorf("invalid transition_duration '%s': %w", *c.TransitionDuration, err)
		}
	}
	if c.RecomputeInterval != nil && *c.RecomputeInterval != "" {
		if _, err := time.ParseDuration(*c.RecomputeInterval); err != nil {
			return fmt.Errorf("invalid recompute_interval '%s': %w", *c.RecomputeInterval, err)
		}
	}
	if c.OpacitySmoothing != nil {
		if *c.OpacitySmoothing <= 0 || *c.OpacitySmoothing > 1 {
			return fmt.Errorf("opacity_smoothing must be in (0, 1], got %f", *c.OpacitySmoothing)
		}
	}
	if c.MaxClusters != nil && *c.MaxClusters < 1 {
		return fmt.Errorf("max_clusters must be positive, got %d", *c.MaxClusters)
	}
	if c.RasterWidth != nil && *c.RasterWidth < 64 {
		return fmt.Errorf("raster_width must be at least 64, got %d", *c.RasterWidth)
	}
	if c.RasterHeight != nil && *c.RasterHeight < 32 {
		return fmt.Errorf("raster_height must be at least 32, got %d", *c.RasterHeight)
	}
	return nil
}

// GetFarBound returns the far distance bound.
func (c *TuningConfig) GetFarBound() float64 {
	if c.FarBound == nil {
		return zoom.DefaultFarBound
	}
	return *c.FarBound
}

// GetNearBound returns the near distance bound.
func (c *TuningConfig) GetNearBound() float64 {
	if c.NearBound == nil {
		return zoom.DefaultNearBound
	}
	return *c.NearBound
}

// GetTransitionDuration parses and returns the minimum cross-fade duration.
func (c *TuningConfig) GetTransitionDuration() time.Duration {
	if c.TransitionDuration == nil || *c.TransitionDuration == "" {
		return zoom.DefaultTransitionDuration
	}
	d, err := time.ParseDuration(*c.TransitionDuration)
	if err != nil {
		return zoom.DefaultTransitionDuration
	}
	return d
}

// GetModeDeadZone returns the anti-chatter progress band width.
func (c *TuningConfig) GetModeDeadZone() float64 {
	if c.ModeDeadZone == nil {
		return zoom.DefaultModeDeadZone
	}
	return *c.ModeDeadZone
}

// GetCellSize returns the clustering grid cell edge.
func (c *TuningConfig) GetCellSize() float64 {
	if c.CellSize == nil {
		return cluster.DefaultCellSize
	}
	return *c.CellSize
}

// GetSparseCellThreshold returns the per-member emission threshold.
func (c *TuningConfig) GetSparseCellThreshold() int {
	if c.SparseCellThreshold == nil {
		return cluster.DefaultSparseCellThreshold
	}
	return *c.SparseCellThreshold
}

// GetMaxClusters returns the global cluster cap.
func (c *TuningConfig) GetMaxClusters() int {
	if c.MaxClusters == nil {
		return cluster.DefaultMaxClusters
	}
	return *c.MaxClusters
}

// GetBandStep returns the distance quantization step.
func (c *TuningConfig) GetBandStep() float64 {
	if c.BandStep == nil {
		return cluster.DefaultBandStep
	}
	return *c.BandStep
}

// GetNearBandLimit returns the highest near-view band index.
func (c *TuningConfig) GetNearBandLimit() int {
	if c.NearBandLimit == nil {
		return cluster.DefaultNearBandLimit
	}
	return *c.NearBandLimit
}

// GetRasterWidth returns the heatmap raster width.
func (c *TuningConfig) GetRasterWidth() int {
	if c.RasterWidth == nil {
		return heatmap.DefaultWidth
	}
	return *c.RasterWidth
}

// GetRasterHeight returns the heatmap raster height.
func (c *TuningConfig) GetRasterHeight() int {
	if c.RasterHeight == nil {
		return heatmap.DefaultHeight
	}
	return *c.RasterHeight
}

// GetBlurRadius returns the heatmap blur radius.
func (c *TuningConfig) GetBlurRadius() int {
	if c.BlurRadius == nil {
		return heatmap.DefaultBlurRadius
	}
	return *c.BlurRadius
}

// GetCacheSize returns the texture cache bound.
func (c *TuningConfig) GetCacheSize() int {
	if c.CacheSize == nil {
		return heatmap.DefaultCacheSize
	}
	return *c.CacheSize
}

// GetOpacitySmoothing returns the per-frame opacity lerp factor.
func (c *TuningConfig) GetOpacitySmoothing() float64 {
	if c.OpacitySmoothing == nil {
		return viz.DefaultOpacitySmoothing
	}
	return *c.OpacitySmoothing
}

// GetRecomputeInterval parses and returns the recompute rate guard interval.
func (c *TuningConfig) GetRecomputeInterval() time.Duration {
	if c.RecomputeInterval == nil || *c.RecomputeInterval == "" {
		return viz.DefaultRecomputeInterval
	}
	d, err := time.ParseDuration(*c.RecomputeInterval)
	if err != nil {
		return viz.DefaultRecomputeInterval
	}
	return d
}

// GetOpacityEpsilon returns the faded-out opacity threshold.
func (c *TuningConfig) GetOpacityEpsilon() float64 {
	if c.OpacityEpsilon == nil {
		return viz.DefaultOpacityEpsilon
	}
	return *c.OpacityEpsilon
}

// ManagerConfigFromTuning builds the full orchestrator configuration from a
// loaded TuningConfig. Use viz.DefaultConfig directly when no tuning file is
// in play.
func ManagerConfigFromTuning(c *TuningConfig) viz.Config {
	return viz.Config{
		Zoom: zoom.Config{
			FarBound:           c.GetFarBound(),
			NearBound:          c.GetNearBound(),
			TransitionDuration: c.GetTransitionDuration(),
			ModeDeadZone:       c.GetModeDeadZone(),
		},
		Cluster: cluster.Config{
			CellSize:            c.GetCellSize(),
			SparseCellThreshold: c.GetSparseCellThreshold(),
			MaxClusters:         c.GetMaxClusters(),
			BandStep:            c.GetBandStep(),
			NearBandLimit:       cluster.Band(c.GetNearBandLimit()),
		},
		Heatmap: heatmap.Config{
			Width:      c.GetRasterWidth(),
			Height:     c.GetRasterHeight(),
			BlurRadius: c.GetBlurRadius(),
			CacheSize:  c.GetCacheSize(),
		},
		OpacitySmoothing:  c.GetOpacitySmoothing(),
		RecomputeInterval: c.GetRecomputeInterval(),
		OpacityEpsilon:    c.GetOpacityEpsilon(),
	}
}
