package heatmap

import (
	"image"
	"log"
	"math"
	"time"

	"github.com/argus-vis/threatglobe/internal/threat"
)

// Constants for heatmap configuration. Raster resolution and blur radius are
// fixed at sizes that complete painting well inside a frame budget; they are
// not derived from record count.
const (
	// DefaultWidth and DefaultHeight are the equirectangular raster
	// dimensions (2:1 aspect).
	DefaultWidth  = 1024
	DefaultHeight = 512
	// DefaultBlurRadius is the box-blur radius applied after painting.
	DefaultBlurRadius = 2
	// DefaultCacheSize bounds the number of resident textures.
	DefaultCacheSize = 8

	// Gradient radius scaling: pixels at minimum severity plus growth per
	// severity step. The floor keeps low-severity points visible.
	baseRadiusPx        = 12.0
	radiusPerSeverityPx = 3.0

	// Alpha floor and ceiling: never fully transparent, never fully
	// opaque, so overlaps stay readably additive.
	alphaFloor   = 0.30
	alphaCeiling = 0.80
)

// gradientStops is the piecewise-linear radial falloff: full alpha at the
// centre, two intermediate stops, zero at the edge. A single linear falloff
// leaves visible hard rings where many gradients overlap.
var gradientStops = [4]struct{ t, a float64 }{
	{0.00, 1.00},
	{0.35, 0.55},
	{0.70, 0.20},
	{1.00, 0.00},
}

// Config carries the synthesizer tunables. Zero values select the defaults.
type Config struct {
	Width      int // Raster width in pixels (default: 1024)
	Height     int // Raster height in pixels (default: 512)
	BlurRadius int // Box blur radius in pixels (default: 2)
	CacheSize  int // Max resident textures (default: 8)
}

// DefaultConfig returns the baseline synthesizer configuration.
func DefaultConfig() Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		BlurRadius: DefaultBlurRadius,
		CacheSize:  DefaultCacheSize,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.BlurRadius < 0 {
		c.BlurRadius = d.BlurRadius
	}
	if c.CacheSize <= 0 {
		c.CacheSize = d.CacheSize
	}
	return c
}

// Synthesizer paints heat-field textures from record sets and memoizes them
// by content fingerprint. Not safe for concurrent use; the frame thread owns
// it and its cache.
type Synthesizer struct {
	cfg   Config
	cache *textureCache

	// scratch is the float accumulation buffer, reused across paints.
	scratch []float64
}

// NewSynthesizer creates a Synthesizer with the given configuration.
func NewSynthesizer(cfg Config) *Synthesizer {
	cfg = cfg.withDefaults()
	return &Synthesizer{
		cfg:   cfg,
		cache: newTextureCache(cfg.CacheSize),
	}
}

// Config returns the effective configuration.
func (s *Synthesizer) Config() Config {
	return s.cfg
}

// CacheLen returns the number of resident cached textures.
func (s *Synthesizer) CacheLen() int {
	return s.cache.Len()
}

// Synthesize returns the heat-field texture for a record set.
//
// An empty set returns nil: downstream consumers treat "no texture" as
// "suppress this layer", and a blank raster would render as a dark wash
// instead. For a non-empty set the content fingerprint is computed first;
// if a raster for that fingerprint is resident it is returned without
// repainting, so re-ordered but otherwise identical record sets share the
// identical *Texture.
func (s *Synthesizer) Synthesize(records []threat.Record) *Texture {
	if len(records) == 0 {
		return nil
	}

	fp := threat.Fingerprint(records)
	if cached := s.cache.Get(fp); cached != nil && !cached.Released() {
		return cached
	}

	start := time.Now()
	img := s.paint(records)
	tex := &Texture{
		Fingerprint: fp,
		Image:       img,
		CreatedAt:   time.Now(),
	}
	s.cache.Put(tex)
	log.Printf("[Heatmap] painted %dx%d raster from %d records in %s",
		s.cfg.Width, s.cfg.Height, len(records), time.Since(start).Round(time.Microsecond))

	return tex
}

// paint renders the additive gradient field and applies the smoothing pass.
func (s *Synthesizer) paint(records []threat.Record) *image.RGBA {
	w, h := s.cfg.Width, s.cfg.Height

	need := w * h * 3
	if cap(s.scratch) < need {
		s.scratch = make([]float64, need)
	}
	buf := s.scratch[:need]
	for i := range buf {
		buf[i] = 0
	}

	for _, r := range records {
		s.paintRecord(buf, r)
	}

	if s.cfg.BlurRadius > 0 {
		boxBlurRGB(buf, w, h, s.cfg.BlurRadius)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		img.Pix[i*4+0] = clamp8(buf[i*3+0])
		img.Pix[i*4+1] = clamp8(buf[i*3+1])
		img.Pix[i*4+2] = clamp8(buf[i*3+2])
		img.Pix[i*4+3] = 0xFF
	}
	return img
}

// paintRecord composites one radial gradient into the accumulation buffer.
func (s *Synthesizer) paintRecord(buf []float64, r threat.Record) {
	w, h := s.cfg.Width, s.cfg.Height

	// Equirectangular canvas mapping.
	cx := (r.Lon + 180.0) / 360.0 * float64(w)
	cy := (90.0 - r.Lat) / 180.0 * float64(h)

	radius := baseRadiusPx + radiusPerSeverityPx*float64(r.Severity)
	alpha := severityAlpha(r.Severity)
	cr, cg, cb := severityColor(r.Severity)

	x0 := int(cx - radius)
	x1 := int(cx + radius + 1)
	y0 := int(cy - radius)
	y1 := int(cy + radius + 1)
	if y0 < 0 {
		y0 = 0
	}
	if y1 > h {
		y1 = h
	}

	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cx
			d := (dx*dx + dy*dy)
			if d > radius*radius {
				continue
			}
			falloff := gradientFalloff(math.Sqrt(d) / radius)
			if falloff <= 0 {
				continue
			}

			// Longitude wraps at the raster seam.
			px := x
			if px < 0 {
				px += w
			} else if px >= w {
				px -= w
			}

			weight := alpha * falloff
			idx := (y*w + px) * 3
			buf[idx+0] += cr * weight
			buf[idx+1] += cg * weight
			buf[idx+2] += cb * weight
		}
	}
}

// severityAlpha maps severity to paint alpha within the floor/ceiling band.
func severityAlpha(severity int) float64 {
	t := float64(severity-threat.MinSeverity) / float64(threat.MaxSeverity-threat.MinSeverity)
	return alphaFloor + t*(alphaCeiling-alphaFloor)
}

// severityColor maps severity to a warm ramp, amber at the low end to deep
// red at the high end. Channels are in [0, 255].
func severityColor(severity int) (r, g, b float64) {
	t := float64(severity-threat.MinSeverity) / float64(threat.MaxSeverity-threat.MinSeverity)
	r = 255.0
	g = 196.0 - t*164.0
	b = 0.0 + t*32.0
	return r, g, b
}

// gradientFalloff evaluates the piecewise-linear stop curve at normalized
// distance t ∈ [0, 1].
func gradientFalloff(t float64) float64 {
	if t <= 0 {
		return gradientStops[0].a
	}
	for i := 1; i < len(gradientStops); i++ {
		if t <= gradientStops[i].t {
			lo, hi := gradientStops[i-1], gradientStops[i]
			span := hi.t - lo.t
			return lo.a + (hi.a-lo.a)*(t-lo.t)/span
		}
	}
	return 0
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
