package hdma

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Filter is the interpolation used when stretching the sampled column
type Filter int

const (
	FilterNearest Filter = iota
	FilterBilinear
	FilterCatmullRom
)

// ParseFilter returns the Filter with the given name
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(s) {
	case "nearest", "":
		return FilterNearest, nil
	case "bilinear":
		return FilterBilinear, nil
	case "catmull-rom", "catmullrom":
		return FilterCatmullRom, nil
	}
	return FilterNearest, fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

func (f Filter) String() string {
	switch f {
	case FilterBilinear:
		return "bilinear"
	case FilterCatmullRom:
		return "catmull-rom"
	default:
		return "nearest"
	}
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case FilterBilinear:
		return draw.ApproxBiLinear
	case FilterCatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// sampleColumn stretches the one pixel wide column at o.X between o.YStart
// and o.YEnd to o.Height rows
func sampleColumn(m image.Image, o Options) *image.NRGBA {
	b := m.Bounds()
	sr := image.Rect(b.Min.X+o.X, b.Min.Y+o.YStart, b.Min.X+o.X+1, b.Min.Y+o.YEnd)

	dst := image.NewNRGBA(image.Rect(0, 0, 1, o.Height))
	o.Filter.interpolator().Scale(dst, dst.Bounds(), m, sr, draw.Src, nil)

	return dst
}

func colours(column *image.NRGBA) []color.NRGBA {
	b := column.Bounds()
	c := make([]color.NRGBA, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		c = append(c, column.NRGBAAt(b.Min.X, y))
	}
	return c
}
