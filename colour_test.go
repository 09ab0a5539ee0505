package hdma

import (
	"image/color"
	"testing"

	"github.com/bodgit/hdma/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedColour(t *testing.T) {
	tests := []struct {
		name   string
		colour color.NRGBA
		c      channel
		want   byte
	}{
		{"black red", color.NRGBA{0, 0, 0, 0xff}, red, 0x20},
		{"black green", color.NRGBA{0, 0, 0, 0xff}, green, 0x40},
		{"black blue", color.NRGBA{0, 0, 0, 0xff}, blue, 0x80},
		{"full red", color.NRGBA{0xff, 0, 0, 0xff}, red, 0x3f},
		{"low bits dropped", color.NRGBA{0, 0x0f, 0, 0xff}, green, 0x41},
		{"full blue", color.NRGBA{0, 0, 0xff, 0xff}, blue, 0x9f},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixedColour(tt.colour, tt.c))
		})
	}
}

func TestCGRAMColour(t *testing.T) {
	assert.Equal(t, uint16(0x0000), cgramColour(color.NRGBA{0, 0, 0, 0xff}))
	assert.Equal(t, uint16(0x001f), cgramColour(color.NRGBA{0xff, 0, 0, 0xff}))
	assert.Equal(t, uint16(0x03e0), cgramColour(color.NRGBA{0, 0xff, 0, 0xff}))
	assert.Equal(t, uint16(0x7c00), cgramColour(color.NRGBA{0, 0, 0xff, 0xff}))
	assert.Equal(t, uint16(0x7fff), cgramColour(color.NRGBA{0xff, 0xff, 0xff, 0xff}))
}

func gradient(r, g, b func(int) uint8, n int) []color.NRGBA {
	out := make([]color.NRGBA, n)
	for i := range out {
		out[i] = color.NRGBA{r(i), g(i), b(i), 0xff}
	}
	return out
}

func TestPickChannel(t *testing.T) {
	step := func(i int) uint8 { return uint8(i * 8) }
	nearly := func(i int) uint8 {
		if i > 25 {
			i = 25
		}
		return uint8(i * 8)
	}
	flat := func(int) uint8 { return 0 }

	tests := []struct {
		name   string
		column []color.NRGBA
		want   channel
	}{
		// Green and blue change equally often so they get paired
		{"red busiest", gradient(step, flat, flat, 32), red},
		// Red and green change often, blue not at all
		{"blue quietest", gradient(step, step, flat, 32), blue},
		{"green quietest", gradient(step, flat, nearly, 32), green},
		{"no changes", gradient(flat, flat, flat, 32), blue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickChannel(tt.column))
		})
	}
}

func TestBuildDoubleNames(t *testing.T) {
	column := gradient(func(int) uint8 { return 0xff }, func(int) uint8 { return 0x80 }, func(int) uint8 { return 0x08 }, 4)

	for _, tc := range []struct {
		single channel
		names  []string
		value  table.Value
	}{
		{red, []string{"red_table", "green_blue_table"}, table.Value{0x50, 0x81}},
		{green, []string{"green_table", "red_blue_table"}, table.Value{0x3f, 0x81}},
		{blue, []string{"blue_table", "red_green_table"}, table.Value{0x3f, 0x50}},
	} {
		tables, err := buildDouble(column, tc.single)
		require.NoError(t, err)
		require.Len(t, tables, 2)

		assert.Equal(t, tc.names[0], tables[0].Name())
		assert.Equal(t, tc.names[1], tables[1].Name())
		assert.Equal(t, 1, tables[0].Width())
		assert.Equal(t, table.ByteWrites, tables[0].Mode())
		assert.Equal(t, 2, tables[1].Width())
		assert.Equal(t, table.WordWrites, tables[1].Mode())
		assert.Equal(t, tc.value, tables[1].Stream()[0])
	}
}

func TestBuildersAreRaw(t *testing.T) {
	index := uint8(0)
	column := gradient(func(i int) uint8 { return uint8(i) }, func(int) uint8 { return 0 }, func(int) uint8 { return 0 }, 16)

	for _, mode := range []Mode{ModeSingle, ModeDouble, ModeBig, ModePalette} {
		tables, err := buildTables(mode, column, Options{Index: &index})
		require.NoError(t, err)
		for _, tbl := range tables {
			assert.Equal(t, table.Raw, tbl.State())
			assert.Equal(t, 16, tbl.Scanlines())
			for _, r := range tbl.Rows() {
				assert.Equal(t, 1, r.Scanlines())
			}
		}
	}

	_, err := buildTables(ModePalette, column, Options{})
	assert.ErrorIs(t, err, ErrMissingIndex)
}
