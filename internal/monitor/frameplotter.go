package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/argus-vis/threatglobe/internal/viz"
)

// FramePlotter records pipeline state over time for visualization.
// It samples the Manager's snapshot on each call to Sample(), accumulating
// time series data that can be plotted after a run.
type FramePlotter struct {
	mu        sync.Mutex
	enabled   bool
	outputDir string

	samples  []FrameSample
	frameIdx int
}

// FrameSample represents one snapshot of the pipeline state.
type FrameSample struct {
	FrameIdx     int
	Distance     float64
	RawProgress  float64
	Progress     float64
	HeatOpacity  float64
	PixelOpacity float64
	ClusterCount int
}

// NewFramePlotter creates a plotter.
func NewFramePlotter() *FramePlotter {
	return &FramePlotter{}
}

// Start initializes the plotter for a new run. outputDir should be a
// run-specific directory.
func (fp *FramePlotter) Start(outputDir string) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	fp.outputDir = outputDir
	fp.enabled = true
	fp.frameIdx = 0
	fp.samples = nil
	return nil
}

// Stop disables sampling. Call GeneratePlots() to produce output files.
func (fp *FramePlotter) Stop() {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.enabled = false
}

// Sample captures the current pipeline state. Call this once per frame.
func (fp *FramePlotter) Sample(snap viz.Snapshot) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if !fp.enabled {
		return
	}

	fp.frameIdx++
	fp.samples = append(fp.samples, FrameSample{
		FrameIdx:     fp.frameIdx,
		Distance:     snap.Zoom.Distance,
		RawProgress:  snap.Zoom.RawProgress,
		Progress:     snap.Zoom.Progress,
		HeatOpacity:  snap.HeatOpacity,
		PixelOpacity: snap.PixelOpacity,
		ClusterCount: len(snap.Clusters),
	})
}

// GeneratePlots creates PNG files for the run: transition progress, layer
// opacities, and cluster count over frames. Returns the number of plots
// generated and any error.
func (fp *FramePlotter) GeneratePlots() (int, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if fp.outputDir == "" {
		return 0, fmt.Errorf("no output directory configured")
	}
	if len(fp.samples) == 0 {
		return 0, nil
	}

	plots := []struct {
		name   string
		title  string
		yLabel string
		series map[string]func(FrameSample) float64
	}{
		{
			name:   "progress.png",
			title:  "Zoom Transition Progress",
			yLabel: "Progress",
			series: map[string]func(FrameSample) float64{
				"raw":       func(s FrameSample) float64 { return s.RawProgress },
				"displayed": func(s FrameSample) float64 { return s.Progress },
			},
		},
		{
			name:   "opacity.png",
			title:  "Layer Opacities",
			yLabel: "Opacity",
			series: map[string]func(FrameSample) float64{
				"heat":   func(s FrameSample) float64 { return s.HeatOpacity },
				"pixels": func(s FrameSample) float64 { return s.PixelOpacity },
			},
		},
		{
			name:   "clusters.png",
			title:  "Cluster Count",
			yLabel: "Clusters",
			series: map[string]func(FrameSample) float64{
				"clusters": func(s FrameSample) float64 { return float64(s.ClusterCount) },
			},
		},
	}

	count := 0
	for _, spec := range plots {
		if err := fp.generateLinePlot(spec.name, spec.title, spec.yLabel, spec.series); err != nil {
			return count, fmt.Errorf("%s: %w", spec.name, err)
		}
		count++
	}
	return count, nil
}

func (fp *FramePlotter) generateLinePlot(name, title, yLabel string, series map[string]func(FrameSample) float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = yLabel

	// Stable series order for a consistent legend
	names := make([]string, 0, len(series))
	for n := range series {
		names = append(names, n)
	}
	sort.Strings(names)

	yMax := 0.0
	for i, n := range names {
		extract := series[n]
		pts := make(plotter.XYs, 0, len(fp.samples))
		ys := make([]float64, 0, len(fp.samples))
		for _, s := range fp.samples {
			y := extract(s)
			pts = append(pts, plotter.XY{X: float64(s.FrameIdx), Y: y})
			ys = append(ys, y)
		}
		if len(ys) > 0 {
			if m := floats.Max(ys); m > yMax {
				yMax = m
			}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(n, line)
	}

	// Headroom above the tallest series
	if yMax > 0 {
		p.Y.Max = yMax * 1.1
	}

	out := filepath.Join(fp.outputDir, name)
	return p.Save(10*vg.Inch, 5*vg.Inch, out)
}
