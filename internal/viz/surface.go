package viz

import (
	"github.com/argus-vis/threatglobe/internal/cluster"
	"github.com/argus-vis/threatglobe/internal/heatmap"
	"github.com/argus-vis/threatglobe/internal/zoom"
)

// RenderSurface is the capability an external renderer provides to the
// orchestrator. Implementations receive the full layer state on every frame;
// a nil texture means "suppress the heat layer", an empty cluster list means
// "suppress the point layer".
//
// The scene graph, camera and shader effects behind the surface are outside
// this module entirely.
type RenderSurface interface {
	// SetZoomState reports the discrete mode and displayed progress.
	SetZoomState(mode zoom.Mode, progress float64)
	// SetHeatLayer supplies the heat-field texture and its opacity.
	SetHeatLayer(tex *heatmap.Texture, opacity float64)
	// SetPixelLayer supplies the renderable clusters and their opacity.
	SetPixelLayer(clusters []cluster.Cluster, opacity float64)
}

// Snapshot is the orchestrator's externally visible state after one frame
// update. Slices and pointers are shared, not copied; consumers must treat
// them as read-only.
type Snapshot struct {
	Zoom         zoom.State
	Band         cluster.Band
	HeatOpacity  float64
	PixelOpacity float64
	Clusters     []cluster.Cluster
	Texture      *heatmap.Texture
	RecordCount  int
}
