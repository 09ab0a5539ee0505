package hdma

import (
	"fmt"
	"strings"
)

// Mode selects which tables are generated from the image
type Mode int

const (
	// ModeAuto picks ModeBig for anything taller than the visible screen
	// and ModeDouble otherwise
	ModeAuto Mode = iota
	// ModeSingle writes the fixed colour with three single byte tables,
	// one per channel
	ModeSingle
	// ModeDouble writes the fixed colour with one single byte table and
	// one table carrying the remaining two channels as a word
	ModeDouble
	// ModeBig writes a single pseudo table of raw 5-bit RGB triplets read
	// by the scrollable gradient code
	ModeBig
	// ModePalette writes a colour into CG-RAM at a fixed index every
	// scanline
	ModePalette
)

var modeNames = map[string]Mode{
	"a":       ModeAuto,
	"auto":    ModeAuto,
	"s":       ModeSingle,
	"single":  ModeSingle,
	"d":       ModeDouble,
	"double":  ModeDouble,
	"b":       ModeBig,
	"big":     ModeBig,
	"c":       ModePalette,
	"cgram":   ModePalette,
	"p":       ModePalette,
	"palette": ModePalette,
}

// ParseMode returns the Mode matching either the full name or the single
// letter abbreviation
func ParseMode(s string) (Mode, error) {
	if m, ok := modeNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	return ModeAuto, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeSingle:
		return "single"
	case ModeDouble:
		return "double"
	case ModeBig:
		return "big"
	case ModePalette:
		return "palette"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Resolve replaces ModeAuto with the mode best suited for height scanlines
func (m Mode) Resolve(height int) Mode {
	if m != ModeAuto {
		return m
	}
	if height > StandardScanlines {
		return ModeBig
	}
	return ModeDouble
}

// Tables returns how many tables the mode generates
func (m Mode) Tables() int {
	switch m {
	case ModeSingle:
		return 3
	case ModeDouble:
		return 2
	case ModeBig, ModePalette:
		return 1
	default:
		return 0
	}
}
