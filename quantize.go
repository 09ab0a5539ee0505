package hdma

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// reduceColours maps the column onto a median cut palette of at most n
// colours, which gives longer runs of identical scanlines
func reduceColours(m *image.NRGBA, n int) *image.NRGBA {
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, n), m)

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	out := image.NewNRGBA(b)
	draw.Draw(out, b, pm, b.Min, draw.Src)

	return out
}
