package cluster

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/argus-vis/threatglobe/internal/geo"
	"github.com/argus-vis/threatglobe/internal/threat"
)

// Constants for clustering configuration.
const (
	// DefaultCellSize is the uniform grid cell edge in world units on a
	// globe of geo.DefaultGlobeRadius.
	DefaultCellSize = 0.75
	// DefaultSparseCellThreshold is the member count at or below which a
	// cell emits one cluster per member, keeping isolated threats
	// individually visible.
	DefaultSparseCellThreshold = 3
	// DefaultMaxClusters bounds the cluster list to cap per-frame draw
	// calls.
	DefaultMaxClusters = 200
	// DefaultBandStep is the coarse distance step used to discretize
	// camera distance into zoom bands.
	DefaultBandStep = 2.0
	// DefaultNearBandLimit is the highest band index still considered the
	// near view (distance ≲ 9 world units with the default step).
	DefaultNearBandLimit = 4
)

// Band is a coarse discretization of camera distance. Expensive reclustering
// is gated on band changes rather than on the raw, continuously varying
// distance.
type Band int

// Config carries the clustering tunables. Zero values select the defaults;
// use DefaultConfig for an explicit baseline.
type Config struct {
	CellSize            float64 // Grid cell edge in world units (default: 0.75)
	SparseCellThreshold int     // Max members for per-member emission (default: 3)
	MaxClusters         int     // Global cluster cap (default: 200)
	GlobeRadius         float64 // Render globe radius (default: 10.0)
	BandStep            float64 // Distance quantization step (default: 2.0)
	NearBandLimit       Band    // Highest near-view band index (default: 4)
}

// DefaultConfig returns the baseline clustering configuration.
func DefaultConfig() Config {
	return Config{
		CellSize:            DefaultCellSize,
		SparseCellThreshold: DefaultSparseCellThreshold,
		MaxClusters:         DefaultMaxClusters,
		GlobeRadius:         geo.DefaultGlobeRadius,
		BandStep:            DefaultBandStep,
		NearBandLimit:       DefaultNearBandLimit,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CellSize <= 0 {
		c.CellSize = d.CellSize
	}
	if c.SparseCellThreshold <= 0 {
		c.SparseCellThreshold = d.SparseCellThreshold
	}
	if c.MaxClusters <= 0 {
		c.MaxClusters = d.MaxClusters
	}
	if c.GlobeRadius <= 0 {
		c.GlobeRadius = d.GlobeRadius
	}
	if c.BandStep <= 0 {
		c.BandStep = d.BandStep
	}
	if c.NearBandLimit <= 0 {
		c.NearBandLimit = d.NearBandLimit
	}
	return c
}

// BandForDistance quantizes a camera distance to its zoom band.
func (c Config) BandForDistance(distance float64) Band {
	if distance < 0 {
		distance = 0
	}
	step := c.BandStep
	if step <= 0 {
		step = DefaultBandStep
	}
	return Band(math.Round(distance / step))
}

// Near reports whether the band represents the closest view, in which
// aggregation is skipped entirely.
func (c Config) Near(b Band) bool {
	limit := c.NearBandLimit
	if limit <= 0 {
		limit = DefaultNearBandLimit
	}
	return b <= limit
}

// Cluster is an aggregate renderable standing in for one or more underlying
// threat records. Clusters are ephemeral derived values, recomputed per
// clustering pass and never persisted.
type Cluster struct {
	// Anchor is the world-space position of the cluster marker. For a
	// collapsed cell it is the projected position of the first member.
	Anchor geo.Vec3
	// MemberIDs holds the record IDs this cluster stands in for, in input
	// order. Always at least one.
	MemberIDs []string
	// AggregateSeverity is the arithmetic mean of member severities.
	AggregateSeverity float64
	// DominantCategory is the plurality-vote category over members; ties
	// break to the category seen first in input order.
	DominantCategory threat.Category
	// Fill and Glow are the resolved display colors.
	Fill, Glow color.RGBA
}

// Clusterer groups threat records into a bounded set of renderable clusters.
// Clusterer is not safe for concurrent use; the frame thread owns it.
type Clusterer struct {
	cfg Config
}

// NewClusterer creates a Clusterer with the given configuration.
func NewClusterer(cfg Config) *Clusterer {
	return &Clusterer{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (cl *Clusterer) Config() Config {
	return cl.cfg
}

// Cluster groups records according to the zoom band policy.
//
// Near band: aggregation is skipped; records are ranked by severity
// descending (stable on input order) and capped at MaxClusters, each
// surviving record becoming a singleton cluster.
//
// Other bands: records are projected onto the globe and bucketed by the
// uniform grid. Cells at or below SparseCellThreshold members emit one
// cluster per member; denser cells collapse into a single cluster anchored
// at the first member. The result is sorted by aggregate severity descending
// before the global cap is applied, so truncation is deterministic.
//
// Malformed records are clamped by projection, never rejected: the operation
// has no failure modes.
func (cl *Clusterer) Cluster(records []threat.Record, band Band) []Cluster {
	if len(records) == 0 {
		return nil
	}

	if cl.cfg.Near(band) {
		return cl.nearSingletons(records)
	}

	grid := newSpatialGrid(cl.cfg.CellSize)
	positions := make([]geo.Vec3, len(records))
	for i, r := range records {
		positions[i] = geo.ProjectLatLng(r.Lat, r.Lon, cl.cfg.GlobeRadius)
		grid.Insert(positions[i], i)
	}

	clusters := make([]Cluster, 0, len(grid.Cells))
	grid.CellsInOrder(func(members []int) {
		if len(members) <= cl.cfg.SparseCellThreshold {
			for _, idx := range members {
				clusters = append(clusters, cl.singleton(records[idx], positions[idx]))
			}
			return
		}
		clusters = append(clusters, cl.collapse(records, positions, members))
	})

	// Deterministic truncation: highest aggregate severity survives the cap.
	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].AggregateSeverity > clusters[b].AggregateSeverity
	})
	if len(clusters) > cl.cfg.MaxClusters {
		clusters = clusters[:cl.cfg.MaxClusters]
	}

	return clusters
}

// nearSingletons implements the closest-view policy: one marker per record,
// severity-prioritized under the cap.
func (cl *Clusterer) nearSingletons(records []threat.Record) []Cluster {
	ranked := make([]int, len(records))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return records[ranked[a]].Severity > records[ranked[b]].Severity
	})
	if len(ranked) > cl.cfg.MaxClusters {
		ranked = ranked[:cl.cfg.MaxClusters]
	}

	clusters := make([]Cluster, 0, len(ranked))
	for _, idx := range ranked {
		r := records[idx]
		clusters = append(clusters, cl.singleton(r, geo.ProjectLatLng(r.Lat, r.Lon, cl.cfg.GlobeRadius)))
	}
	return clusters
}

func (cl *Clusterer) singleton(r threat.Record, pos geo.Vec3) Cluster {
	sev := float64(r.Severity)
	fill, glow := ColorsFor(r.Category, sev)
	return Cluster{
		Anchor:            pos,
		MemberIDs:         []string{r.ID},
		AggregateSeverity: sev,
		DominantCategory:  r.Category,
		Fill:              fill,
		Glow:              glow,
	}
}

// collapse aggregates a dense cell into a single cluster.
func (cl *Clusterer) collapse(records []threat.Record, positions []geo.Vec3, members []int) Cluster {
	ids := make([]string, len(members))
	severities := make([]float64, len(members))

	// Plurality vote with first-seen tie break: track counts and the input
	// order in which each category first appeared.
	counts := make(map[threat.Category]int, 4)
	firstSeen := make(map[threat.Category]int, 4)

	for i, idx := range members {
		r := records[idx]
		ids[i] = r.ID
		severities[i] = float64(r.Severity)
		if _, seen := counts[r.Category]; !seen {
			firstSeen[r.Category] = i
		}
		counts[r.Category]++
	}

	dominant := records[members[0]].Category
	for cat, n := range counts {
		best := counts[dominant]
		if n > best || (n == best && firstSeen[cat] < firstSeen[dominant]) {
			dominant = cat
		}
	}

	mean := stat.Mean(severities, nil)
	fill, glow := ColorsFor(dominant, mean)

	return Cluster{
		Anchor:            positions[members[0]],
		MemberIDs:         ids,
		AggregateSeverity: mean,
		DominantCategory:  dominant,
		Fill:              fill,
		Glow:              glow,
	}
}
