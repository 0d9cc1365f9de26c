// This file provides synthetic record generation for testing and demos.
package threat

import (
	"math/rand"

	"github.com/google/uuid"
)

// Hotspot is a geographic centre that attracts a share of synthetic records,
// so that generated data clusters the way real threat feeds do instead of
// spreading uniformly over the globe.
type Hotspot struct {
	Lat, Lon float64
	// SpreadDeg is the standard deviation of the normal scatter around the
	// centre, in degrees.
	SpreadDeg float64
	// Weight is the relative share of records drawn from this hotspot.
	Weight float64
}

// SyntheticGenerator produces synthetic threat records for testing and demos.
type SyntheticGenerator struct {
	// Hotspots receive BiasFraction of all records; the remainder is
	// distributed uniformly across the globe.
	Hotspots     []Hotspot
	BiasFraction float64

	rng *rand.Rand
}

// defaultHotspots are a handful of plausible threat-origin centres.
var defaultHotspots = []Hotspot{
	{Lat: 39.9, Lon: 116.4, SpreadDeg: 6, Weight: 3},  // Beijing
	{Lat: 55.8, Lon: 37.6, SpreadDeg: 5, Weight: 2},   // Moscow
	{Lat: 37.8, Lon: -122.4, SpreadDeg: 4, Weight: 2}, // Bay Area
	{Lat: 50.1, Lon: 8.7, SpreadDeg: 4, Weight: 1},    // Frankfurt
	{Lat: -23.5, Lon: -46.6, SpreadDeg: 5, Weight: 1}, // São Paulo
	{Lat: 28.6, Lon: 77.2, SpreadDeg: 5, Weight: 1},   // Delhi
}

// NewSyntheticGenerator creates a generator with the default hotspot layout.
// The seed reproduces the spatial distribution and severities across runs
// (IDs are fresh UUIDs each time); use time.Now().UnixNano() for variety.
func NewSyntheticGenerator(seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{
		Hotspots:     defaultHotspots,
		BiasFraction: 0.7,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Generate produces n normalized records.
func (g *SyntheticGenerator) Generate(n int) []Record {
	records := make([]Record, 0, n)
	totalWeight := 0.0
	for _, h := range g.Hotspots {
		totalWeight += h.Weight
	}

	for i := 0; i < n; i++ {
		var lat, lon float64
		if len(g.Hotspots) > 0 && g.rng.Float64() < g.BiasFraction {
			h := g.pickHotspot(totalWeight)
			lat = h.Lat + g.rng.NormFloat64()*h.SpreadDeg
			lon = h.Lon + g.rng.NormFloat64()*h.SpreadDeg
		} else {
			lat = g.rng.Float64()*180.0 - 90.0
			lon = g.rng.Float64()*360.0 - 180.0
		}

		rec := Record{
			ID:       uuid.NewString(),
			Lat:      lat,
			Lon:      lon,
			Category: Category(1 + g.rng.Intn(int(categoryCount)-1)),
			// Skew towards low severity; high-severity events are rare.
			Severity: 1 + int(g.rng.ExpFloat64()*2.0),
		}
		records = append(records, rec.Normalize())
	}

	return records
}

func (g *SyntheticGenerator) pickHotspot(totalWeight float64) Hotspot {
	target := g.rng.Float64() * totalWeight
	for _, h := range g.Hotspots {
		target -= h.Weight
		if target <= 0 {
			return h
		}
	}
	return g.Hotspots[len(g.Hotspots)-1]
}
