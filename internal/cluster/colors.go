package cluster

import (
	"fmt"
	"image/color"

	"github.com/argus-vis/threatglobe/internal/threat"
)

// HighSeverityThreshold is the aggregate severity at or above which a cluster
// switches to its hot display colors.
const HighSeverityThreshold = 7.0

// categoryStyle holds the display color pair for one category at the two
// severity tiers.
type categoryStyle struct {
	fill    color.RGBA
	glow    color.RGBA
	hotFill color.RGBA
	hotGlow color.RGBA
}

var categoryStyles = map[threat.Category]categoryStyle{
	threat.CategoryMalware: {
		fill:    color.RGBA{R: 0xE5, G: 0x48, B: 0x3C, A: 0xFF},
		glow:    color.RGBA{R: 0xFF, G: 0x8A, B: 0x65, A: 0xFF},
		hotFill: color.RGBA{R: 0xFF, G: 0x1F, B: 0x0F, A: 0xFF},
		hotGlow: color.RGBA{R: 0xFF, G: 0x6E, B: 0x40, A: 0xFF},
	},
	threat.CategoryPhishing: {
		fill:    color.RGBA{R: 0xF5, G: 0xA6, B: 0x23, A: 0xFF},
		glow:    color.RGBA{R: 0xFF, G: 0xD5, B: 0x4F, A: 0xFF},
		hotFill: color.RGBA{R: 0xFF, G: 0x8F, B: 0x00, A: 0xFF},
		hotGlow: color.RGBA{R: 0xFF, G: 0xC4, B: 0x00, A: 0xFF},
	},
	threat.CategoryDDoS: {
		fill:    color.RGBA{R: 0x9C, G: 0x27, B: 0xB0, A: 0xFF},
		glow:    color.RGBA{R: 0xCE, G: 0x93, B: 0xD8, A: 0xFF},
		hotFill: color.RGBA{R: 0xD5, G: 0x00, B: 0xF9, A: 0xFF},
		hotGlow: color.RGBA{R: 0xEA, G: 0x80, B: 0xFC, A: 0xFF},
	},
	threat.CategoryBotnet: {
		fill:    color.RGBA{R: 0x29, G: 0x79, B: 0xFF, A: 0xFF},
		glow:    color.RGBA{R: 0x82, G: 0xB1, B: 0xFF, A: 0xFF},
		hotFill: color.RGBA{R: 0x00, G: 0x4F, B: 0xE0, A: 0xFF},
		hotGlow: color.RGBA{R: 0x44, G: 0x8A, B: 0xFF, A: 0xFF},
	},
	threat.CategoryExploit: {
		fill:    color.RGBA{R: 0x00, G: 0xBF, B: 0xA5, A: 0xFF},
		glow:    color.RGBA{R: 0x64, G: 0xFF, B: 0xDA, A: 0xFF},
		hotFill: color.RGBA{R: 0x00, G: 0xE5, B: 0xCC, A: 0xFF},
		hotGlow: color.RGBA{R: 0xA7, G: 0xFF, B: 0xEB, A: 0xFF},
	},
}

var unknownStyle = categoryStyle{
	fill:    color.RGBA{R: 0x9E, G: 0x9E, B: 0x9E, A: 0xFF},
	glow:    color.RGBA{R: 0xCF, G: 0xCF, B: 0xCF, A: 0xFF},
	hotFill: color.RGBA{R: 0xBD, G: 0xBD, B: 0xBD, A: 0xFF},
	hotGlow: color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF},
}

// ColorsFor resolves the fill and glow display colors for a dominant category
// at a given aggregate severity. At or above HighSeverityThreshold the hot
// variant is used.
func ColorsFor(cat threat.Category, aggregateSeverity float64) (fill, glow color.RGBA) {
	style, ok := categoryStyles[cat]
	if !ok {
		style = unknownStyle
	}
	if aggregateSeverity >= HighSeverityThreshold {
		return style.hotFill, style.hotGlow
	}
	return style.fill, style.glow
}

// HexRGB formats a color as "#RRGGBB" for HTML-side consumers.
func HexRGB(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
