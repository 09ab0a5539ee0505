package hdma

import (
	"fmt"
	"image"
)

// Options describes a single conversion. All coordinates are relative to the
// top-left corner of the image.
type Options struct {
	// X is the column sampled
	X int
	// YStart and YEnd are the first and one past the last row sampled
	YStart int
	YEnd   int
	// Height is the number of scanlines generated
	Height int
	Mode   Mode
	// Index is the CG-RAM colour written in ModePalette
	Index *uint8

	// PickChannel chooses the fixed colour channel written on its own in
	// ModeDouble from the number of colour changes rather than always
	// using red
	PickChannel bool
	// Filter is used when the sampled rows are stretched to Height
	Filter Filter
	// Colours reduces the sampled column to at most this many colours
	// when non-zero
	Colours int

	// Optimise merges rows in each table before it is written
	Optimise bool
	// Verify decodes each written table and checks it against the
	// sampled colours
	Verify bool
	// Workers is the number of tables processed concurrently
	Workers int
}

const maxColours = 256

// Validate checks the options against the bounds of the source image
func (o Options) Validate(bounds image.Rectangle) error {
	switch {
	case o.YStart < 0 || o.YStart >= o.YEnd:
		return fmt.Errorf("%w: y range %d..%d is empty", ErrInvalidRange, o.YStart, o.YEnd)
	case o.YEnd > bounds.Dy():
		return fmt.Errorf("%w: y position %d is outside of the image", ErrInvalidRange, o.YEnd)
	case o.X < 0 || o.X >= bounds.Dx():
		return fmt.Errorf("%w: x position %d is outside of the image", ErrInvalidRange, o.X)
	case o.Height < 1:
		return fmt.Errorf("%w: height %d", ErrInvalidRange, o.Height)
	case o.Colours < 0 || o.Colours == 1 || o.Colours > maxColours:
		return fmt.Errorf("%w: %d colours", ErrInvalidRange, o.Colours)
	}

	switch o.Mode.Resolve(o.Height) {
	case ModeSingle, ModeDouble, ModeBig:
	case ModePalette:
		if o.Index == nil {
			return ErrMissingIndex
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(o.Mode))
	}

	return nil
}

// Advisories returns any warnings about the options that don't prevent the
// tables from being generated
func (o Options) Advisories() []string {
	var a []string
	if o.Height < StandardScanlines {
		a = append(a, fmt.Sprintf("output height %d is smaller than %d, a height of at least %d is recommended", o.Height, StandardScanlines, StandardScanlines))
	}
	if o.Mode.Resolve(o.Height) != ModeBig && o.Height > StandardScanlines {
		a = append(a, fmt.Sprintf("output height %d is larger than %d, a big gradient is recommended", o.Height, StandardScanlines))
	}
	return a
}

func (o Options) workers(tables int) int {
	switch {
	case o.Workers < 1:
		return 1
	case o.Workers > tables:
		return tables
	default:
		return o.Workers
	}
}
