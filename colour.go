package hdma

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/bodgit/hdma/table"
)

type channel int

const (
	red channel = iota
	green
	blue
)

func (c channel) String() string {
	return [...]string{"red", "green", "blue"}[c]
}

// bit returns the COLDATA bit selecting the channel
func (c channel) bit() byte {
	return 0x20 << uint(c)
}

func (c channel) intensity(col color.NRGBA) byte {
	switch c {
	case red:
		return col.R >> 3
	case green:
		return col.G >> 3
	default:
		return col.B >> 3
	}
}

// The SNES uses 5 bits per channel, the low three bits of each 8-bit channel
// are dropped
func fixedColour(col color.NRGBA, c channel) byte {
	return c.intensity(col) | c.bit()
}

// cgramColour packs col into the 15-bit BGR format used by CG-RAM
func cgramColour(col color.NRGBA) uint16 {
	return uint16(red.intensity(col)) | uint16(green.intensity(col))<<5 | uint16(blue.intensity(col))<<10
}

func tableName(cs ...channel) string {
	s := cs[0].String()
	for _, c := range cs[1:] {
		s += "_" + c.String()
	}
	return s + "_table"
}

func buildTables(mode Mode, column []color.NRGBA, o Options) ([]*table.Table, error) {
	switch mode {
	case ModeSingle:
		return buildSingle(column)
	case ModeDouble:
		single := red
		if o.PickChannel {
			single = pickChannel(column)
		}
		return buildDouble(column, single)
	case ModeBig:
		return buildBig(column)
	case ModePalette:
		if o.Index == nil {
			return nil, ErrMissingIndex
		}
		return buildPalette(column, *o.Index)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
}

func buildSingle(column []color.NRGBA) ([]*table.Table, error) {
	channels := []channel{red, green, blue}
	tables := make([]*table.Table, len(channels))
	for i, c := range channels {
		t, err := table.New(tableName(c), 1, table.ByteWrites)
		if err != nil {
			return nil, err
		}
		for _, col := range column {
			if err := t.Push(table.NewScanline(table.Value{fixedColour(col, c)})); err != nil {
				return nil, err
			}
		}
		tables[i] = t
	}
	return tables, nil
}

// changes counts how often the intensity of the channel changes between
// scanlines
func changes(column []color.NRGBA, c channel) int {
	n := 0
	for i := 1; i < len(column); i++ {
		if c.intensity(column[i]) != c.intensity(column[i-1]) {
			n++
		}
	}
	return n
}

// pickChannel returns the channel to write on its own. The two channels with
// the closest number of changes are paired together as they'll compress the
// most alike.
func pickChannel(column []color.NRGBA) channel {
	channels := []channel{red, green, blue}
	counts := make(map[channel]int, len(channels))
	for _, c := range channels {
		counts[c] = changes(column, c)
	}
	sort.SliceStable(channels, func(i, j int) bool {
		return counts[channels[i]] < counts[channels[j]]
	})

	lo, mid, hi := counts[channels[0]], counts[channels[1]], counts[channels[2]]
	if mid-lo > hi-mid {
		return channels[0]
	}
	return channels[2]
}

func buildDouble(column []color.NRGBA, single channel) ([]*table.Table, error) {
	var pair []channel
	for _, c := range []channel{red, green, blue} {
		if c != single {
			pair = append(pair, c)
		}
	}

	st, err := table.New(tableName(single), 1, table.ByteWrites)
	if err != nil {
		return nil, err
	}
	dt, err := table.New(tableName(pair...), 2, table.WordWrites)
	if err != nil {
		return nil, err
	}

	for _, col := range column {
		if err := st.Push(table.NewScanline(table.Value{fixedColour(col, single)})); err != nil {
			return nil, err
		}
		if err := dt.Push(table.NewScanline(table.Value{fixedColour(col, pair[0]), fixedColour(col, pair[1])})); err != nil {
			return nil, err
		}
	}

	return []*table.Table{st, dt}, nil
}

// The scrollable gradient code has no continuous rows so every scanline
// starts as its own repeat row
func buildBig(column []color.NRGBA) ([]*table.Table, error) {
	t, err := table.NewPseudo("gradient_table", 3, table.ByteWrites)
	if err != nil {
		return nil, err
	}
	for _, col := range column {
		r, err := table.NewRepeat(1, table.Value{red.intensity(col), green.intensity(col), blue.intensity(col)})
		if err != nil {
			return nil, err
		}
		if err := t.Push(r); err != nil {
			return nil, err
		}
	}
	return []*table.Table{t}, nil
}

// Each scanline writes the index to CGADD twice followed by the colour low
// and high byte to CGDATA
func buildPalette(column []color.NRGBA, index uint8) ([]*table.Table, error) {
	t, err := table.New("colour_table", 4, table.WordWrites)
	if err != nil {
		return nil, err
	}
	for _, col := range column {
		c := cgramColour(col)
		if err := t.Push(table.NewScanline(table.Value{0x00, index, byte(c), byte(c >> 8)})); err != nil {
			return nil, err
		}
	}
	return []*table.Table{t}, nil
}
