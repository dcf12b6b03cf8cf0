package raster

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/asciiplay/internal/model"
)

// Options controls what the rasterizer emits around each glyph.
type Options struct {
	// Color prefixes every glyph with a 24-bit foreground escape.
	Color bool
	// RowBreaks terminates each row with a newline. Terminal output relies
	// on auto-wrap instead.
	RowBreaks bool
}

// Rasterizer renders frames of a fixed source size onto a fixed grid.
type Rasterizer struct {
	src   model.Dims
	dst   model.Dims
	scale model.Scale
	opts  Options
	buf   strings.Builder
}

// NewRasterizer returns a rasterizer mapping src pixels onto dst cells.
func NewRasterizer(src, dst model.Dims, opts Options) *Rasterizer {
	return &Rasterizer{
		src:   src,
		dst:   dst,
		scale: model.ScaleBetween(src, dst),
		opts:  opts,
	}
}

// Scale returns the source/target scale factor.
func (r *Rasterizer) Scale() model.Scale {
	return r.scale
}

// Render produces the text for one frame covering every target cell in
// row-major order.
func (r *Rasterizer) Render(frame []byte) string {
	r.buf.Reset()
	r.buf.Grow(r.sizeHint())
	var num [3]byte
	for y := 0; y < r.dst.H; y++ {
		fy := float64(y)
		for x := 0; x < r.dst.W; x++ {
			fx := float64(x)
			cr, cg, cb := SampleColor(frame, r.src, r.scale, fx, fy)
			q00 := Luma(cr, cg, cb)
			q10 := SampleLuma(frame, r.src, r.scale, fx+0.5, fy)
			q01 := SampleLuma(frame, r.src, r.scale, fx, fy+0.5)
			q11 := SampleLuma(frame, r.src, r.scale, fx+0.5, fy+0.5)
			if r.opts.Color {
				r.buf.WriteString("\x1b[38;2;")
				r.buf.Write(strconv.AppendUint(num[:0], uint64(cr), 10))
				r.buf.WriteByte(';')
				r.buf.Write(strconv.AppendUint(num[:0], uint64(cg), 10))
				r.buf.WriteByte(';')
				r.buf.Write(strconv.AppendUint(num[:0], uint64(cb), 10))
				r.buf.WriteByte('m')
			}
			r.buf.WriteByte(SelectGlyph(q00, q10, q01, q11))
		}
		if r.opts.RowBreaks {
			r.buf.WriteByte('\n')
		}
	}
	return r.buf.String()
}

func (r *Rasterizer) sizeHint() int {
	perCell := 1
	if r.opts.Color {
		perCell += len("\x1b[38;2;255;255;255m")
	}
	n := r.dst.Pixels() * perCell
	if r.opts.RowBreaks {
		n += r.dst.H
	}
	return n
}
