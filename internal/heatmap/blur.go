package heatmap

// boxBlurRGB applies a separable box blur of the given radius to an
// interleaved RGB float buffer. Two passes (horizontal then vertical) using
// running sums, so cost is O(pixels) independent of radius.
//
// The horizontal pass does not wrap at the seam; the painter already splats
// gradients across it, and a one-radius discontinuity at ±180° is below
// visual threshold after compositing.
func boxBlurRGB(buf []float64, w, h, radius int) {
	if radius <= 0 || w == 0 || h == 0 {
		return
	}

	tmp := make([]float64, len(buf))
	window := float64(2*radius + 1)

	// Horizontal pass: buf → tmp.
	for y := 0; y < h; y++ {
		row := y * w * 3
		for c := 0; c < 3; c++ {
			var sum float64
			for x := -radius; x <= radius; x++ {
				sum += sampleClamped(buf, row, w, x, c)
			}
			for x := 0; x < w; x++ {
				tmp[row+x*3+c] = sum / window
				sum += sampleClamped(buf, row, w, x+radius+1, c)
				sum -= sampleClamped(buf, row, w, x-radius, c)
			}
		}
	}

	// Vertical pass: tmp → buf.
	stride := w * 3
	for x := 0; x < w; x++ {
		for c := 0; c < 3; c++ {
			col := x*3 + c
			var sum float64
			for y := -radius; y <= radius; y++ {
				sum += sampleClampedV(tmp, col, stride, h, y)
			}
			for y := 0; y < h; y++ {
				buf[y*stride+col] = sum / window
				sum += sampleClampedV(tmp, col, stride, h, y+radius+1)
				sum -= sampleClampedV(tmp, col, stride, h, y-radius)
			}
		}
	}
}

func sampleClamped(buf []float64, row, w, x, c int) float64 {
	if x < 0 {
		x = 0
	} else if x >= w {
		x = w - 1
	}
	return buf[row+x*3+c]
}

func sampleClampedV(buf []float64, col, stride, h, y int) float64 {
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	return buf[y*stride+col]
}
