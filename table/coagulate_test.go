package table

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanlines(values ...byte) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = NewScanline(Value{v})
	}
	return rows
}

func repeat(t *testing.T, count int, v byte) Row {
	r, err := NewRepeat(count, Value{v})
	require.NoError(t, err)
	return r
}

func continuous(t *testing.T, values ...byte) Row {
	r, err := NewContinuous(values, 1)
	require.NoError(t, err)
	return r
}

func assertRows(t *testing.T, want, got []Row) {
	t.Helper()
	if !assert.Len(t, got, len(want)) {
		t.Logf("got %v", got)
		return
	}
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "row %d: want %v, got %v", i, want[i], got[i])
	}
}

func TestCoagulate(t *testing.T) {
	tests := []struct {
		name string
		in   func(t *testing.T) []Row
		want func(t *testing.T) []Row
	}{
		{
			"empty",
			func(t *testing.T) []Row { return nil },
			func(t *testing.T) []Row { return nil },
		},
		{
			"two identical scanlines",
			func(t *testing.T) []Row { return scanlines(5, 5) },
			func(t *testing.T) []Row { return []Row{repeat(t, 2, 5)} },
		},
		{
			"distinct scanlines",
			func(t *testing.T) []Row { return scanlines(1, 2, 3) },
			func(t *testing.T) []Row { return []Row{continuous(t, 1, 2, 3)} },
		},
		{
			"mixed",
			func(t *testing.T) []Row { return scanlines(1, 2, 2, 2, 3, 4, 4) },
			func(t *testing.T) []Row {
				return []Row{continuous(t, 1), repeat(t, 3, 2), continuous(t, 3), repeat(t, 2, 4)}
			},
		},
		{
			"runs cross row boundaries",
			func(t *testing.T) []Row {
				return []Row{continuous(t, 1, 2, 3), repeat(t, 4, 3), continuous(t, 3, 9)}
			},
			func(t *testing.T) []Row {
				return []Row{continuous(t, 1, 2), repeat(t, 6, 3), continuous(t, 9)}
			},
		},
		{
			"adjacent repeats",
			func(t *testing.T) []Row { return []Row{repeat(t, 100, 1), repeat(t, 100, 1)} },
			func(t *testing.T) []Row { return []Row{repeat(t, 127, 1), repeat(t, 73, 1)} },
		},
		{
			"terminator is kept last",
			func(t *testing.T) []Row { return append(scanlines(1, 1), NewTerminator()) },
			func(t *testing.T) []Row { return []Row{repeat(t, 2, 1), NewTerminator()} },
		},
		{
			"nothing merges across a terminator",
			func(t *testing.T) []Row {
				return []Row{NewScanline(Value{1}), NewTerminator(), NewScanline(Value{1})}
			},
			func(t *testing.T) []Row {
				return []Row{continuous(t, 1), NewTerminator(), continuous(t, 1)}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRows(t, tt.want(t), Coagulate(tt.in(t)))
		})
	}
}

func TestCoagulateLongRuns(t *testing.T) {
	for _, k := range []int{2, 126, 127, 128, 254, 255, 500} {
		values := make([]byte, k)
		rows := Coagulate(scanlines(values...))

		require.Len(t, rows, (k+MaxCount-1)/MaxCount, "k=%d", k)
		total := 0
		for _, r := range rows {
			assert.Equal(t, Repeat, r.Kind())
			assert.LessOrEqual(t, r.Scanlines(), MaxCount)
			assert.Equal(t, Value{}, r.Value())
			total += r.Scanlines()
		}
		assert.Equal(t, k, total)
	}
}

func TestCoagulateLongContinuous(t *testing.T) {
	values := make([]byte, 300)
	for i := range values {
		values[i] = byte(i)
	}

	rows := Coagulate(scanlines(values...))
	require.Len(t, rows, 3)
	assert.Equal(t, 127, rows[0].Scanlines())
	assert.Equal(t, 127, rows[1].Scanlines())
	assert.Equal(t, 46, rows[2].Scanlines())
	for _, r := range rows {
		assert.Equal(t, Continuous, r.Kind())
	}
}

func TestCoagulateProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 50; i++ {
		values := make([]byte, 1+rnd.Intn(600))
		for j := range values {
			// A small alphabet gives plenty of runs
			values[j] = byte(rnd.Intn(3))
		}
		in := scanlines(values...)

		once := Coagulate(in)
		assert.Equal(t, expand(in), expand(once))
		assertRows(t, once, Coagulate(once))

		for j, r := range once {
			assert.LessOrEqual(t, r.Scanlines(), MaxCount)
			if j > 0 && r.Kind() == Continuous && once[j-1].Kind() == Continuous && once[j-1].Scanlines() < MaxCount {
				t.Errorf("adjacent continuous rows at %d", j)
			}
			if r.Kind() == Continuous {
				vs := r.Values()
				for k := 1; k < len(vs); k++ {
					assert.NotEqual(t, vs[k-1], vs[k], "mergeable run left in continuous row")
				}
			}
		}
	}
}

func TestCoagulateRepeat(t *testing.T) {
	c := continuous(t, 1, 1)
	in := []Row{
		repeat(t, 1, 1),
		repeat(t, 1, 1),
		repeat(t, 1, 2),
		c,
		repeat(t, 127, 2),
		repeat(t, 5, 2),
	}
	want := []Row{
		repeat(t, 2, 1),
		repeat(t, 1, 2),
		c,
		repeat(t, 127, 2),
		repeat(t, 5, 2),
	}

	got := CoagulateRepeat(in)
	assertRows(t, want, got)
	assertRows(t, got, CoagulateRepeat(got))
}
