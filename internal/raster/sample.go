// Package raster turns RGB24 frames into glyph grids.
package raster

import (
	"math"

	"github.com/verte-zerg/asciiplay/internal/model"
)

// SampleColor returns the source pixel nearest to target position (x, y).
// Positions that land outside the source raster read as black.
func SampleColor(buf []byte, src model.Dims, scale model.Scale, x, y float64) (r, g, b uint8) {
	sx := int(math.Floor(x * scale.X))
	sy := int(math.Floor(y * scale.Y))
	if sx < 0 || sy < 0 {
		return 0, 0, 0
	}
	idx := sy*src.W + sx
	if idx >= src.Pixels() || idx*3+2 >= len(buf) {
		return 0, 0, 0
	}
	return buf[idx*3], buf[idx*3+1], buf[idx*3+2]
}

// SampleLuma returns the luminance proxy r/3 + g/3 + b/3 at (x, y).
// Each channel is divided before the sum so the result stays within a byte;
// the glyph thresholds are tuned against this exact value.
func SampleLuma(buf []byte, src model.Dims, scale model.Scale, x, y float64) uint8 {
	r, g, b := SampleColor(buf, src, scale, x, y)
	return Luma(r, g, b)
}

// Luma is the per-channel luminance proxy used by SampleLuma.
func Luma(r, g, b uint8) uint8 {
	return r/3 + g/3 + b/3
}
