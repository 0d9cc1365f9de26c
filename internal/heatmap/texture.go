package heatmap

import (
	"image"
	"time"
)

// Texture is a synthesized heat-field raster plus the fingerprint of the
// record set it was painted from. Consumers treat a nil *Texture as
// "suppress the heat layer".
type Texture struct {
	// Fingerprint is the content hash of the contributing record set.
	Fingerprint string
	// Image is the equirectangular raster. Nil after Release.
	Image *image.RGBA
	// CreatedAt records when the raster was painted.
	CreatedAt time.Time
}

// Release frees the raster's backing pixel buffer. Called by the cache on
// eviction; the Texture must not be painted from afterwards.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	t.Image = nil
}

// Released reports whether the backing buffer has been freed.
func (t *Texture) Released() bool {
	return t == nil || t.Image == nil
}
