package table

import "fmt"

// Value holds the bytes written on a single scanline. Only the first width
// bytes of the owning table are used, the rest are left as zero.
type Value [maxWidth]byte

// Kind identifies the type of a row
type Kind int

const (
	Invalid Kind = iota
	Repeat
	Continuous
	Terminator
)

func (k Kind) String() string {
	switch k {
	case Repeat:
		return "repeat"
	case Continuous:
		return "continuous"
	case Terminator:
		return "terminator"
	default:
		return "invalid"
	}
}

// Row is a single entry in a table. A repeat row writes the same value for a
// number of scanlines, a continuous row writes a new value every scanline and
// a terminator row marks the end of the table.
type Row struct {
	kind   Kind
	count  int
	values []Value
}

// NewRepeat returns a row writing v for count scanlines
func NewRepeat(count int, v Value) (Row, error) {
	if count < 1 || count > MaxCount {
		return Row{}, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	return Row{kind: Repeat, count: count, values: []Value{v}}, nil
}

// NewContinuous splits samples into values of width bytes, one per scanline.
// If the length of samples isn't a multiple of width, the final value is
// completed by repeating its last byte.
func NewContinuous(samples []byte, width int) (Row, error) {
	if width < 1 || width > maxWidth {
		return Row{}, fmt.Errorf("%w: %d", ErrInvalidColumnWidth, width)
	}

	n := (len(samples) + width - 1) / width
	if n < 1 || n > MaxCount {
		return Row{}, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}

	values := make([]Value, n)
	for i := range values {
		chunk := samples[i*width:]
		if len(chunk) > width {
			chunk = chunk[:width]
		}
		copy(values[i][:], chunk)
		for j := len(chunk); j < width; j++ {
			values[i][j] = chunk[len(chunk)-1]
		}
	}

	return Row{kind: Continuous, count: n, values: values}, nil
}

// NewScanline returns a continuous row holding the single value v
func NewScanline(v Value) Row {
	return Row{kind: Continuous, count: 1, values: []Value{v}}
}

// NewTerminator returns the row that ends a table
func NewTerminator() Row {
	return Row{kind: Terminator}
}

func newContinuous(values []Value) Row {
	return Row{kind: Continuous, count: len(values), values: append(values[:0:0], values...)}
}

// Kind returns the type of the row
func (r Row) Kind() Kind {
	return r.kind
}

// Scanlines returns the number of scanlines the row covers
func (r Row) Scanlines() int {
	if r.kind == Terminator {
		return 0
	}
	return r.count
}

// Value returns the value of a repeat row, or the first value of a
// continuous row
func (r Row) Value() Value {
	if len(r.values) == 0 {
		return Value{}
	}
	return r.values[0]
}

// Values returns a copy of the values in the row
func (r Row) Values() []Value {
	return append(r.values[:0:0], r.values...)
}

// Equal reports whether two rows are identical
func (r Row) Equal(o Row) bool {
	if r.kind != o.kind || r.count != o.count || len(r.values) != len(o.values) {
		return false
	}
	for i := range r.values {
		if r.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	switch r.kind {
	case Repeat:
		return fmt.Sprintf("Repeat(%d, % X)", r.count, r.values[0])
	case Continuous:
		return fmt.Sprintf("Continuous(%d)", r.count)
	default:
		return r.kind.String()
	}
}

// expand returns the per-scanline values described by rows
func expand(rows []Row) []Value {
	var out []Value
	for _, r := range rows {
		switch r.kind {
		case Repeat:
			for i := 0; i < r.count; i++ {
				out = append(out, r.values[0])
			}
		case Continuous:
			out = append(out, r.values...)
		}
	}
	return out
}
