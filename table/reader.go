package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	errNoLabel      = errors.New("table: missing label")
	errBadStatement = errors.New("table: invalid data statement")
	errNoTerminator = errors.New("table: missing terminator")
)

type decoder struct {
	s     *bufio.Scanner
	width int
	mode  WriteMode
	line  int
	auto  bool

	name   string
	values []Value
}

func parseHex(s string, bits int) (uint64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "$") {
		return 0, errBadStatement
	}
	return strconv.ParseUint(s[1:], 16, bits)
}

func (d *decoder) next() (string, bool) {
	for d.s.Scan() {
		d.line++
		if line := strings.TrimSpace(d.s.Text()); line != "" {
			return line, true
		}
	}
	return "", false
}

func (d *decoder) errorf(err error) error {
	return fmt.Errorf("%w on line %d", err, d.line)
}

// Parse the data following the count byte into values
func (d *decoder) data(s string) ([]Value, error) {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		fields = append(fields, strings.TrimSpace(f))
	}

	if d.mode == WordWrites {
		per := d.width / 2
		if len(fields)%per != 0 {
			return nil, errBadStatement
		}
		values := make([]Value, len(fields)/per)
		for i, f := range fields {
			w, err := parseHex(f, 16)
			if err != nil {
				return nil, errBadStatement
			}
			values[i/per][i%per*2] = byte(w)
			values[i/per][i%per*2+1] = byte(w >> 8)
		}
		return values, nil
	}

	if len(fields)%d.width != 0 {
		return nil, errBadStatement
	}
	values := make([]Value, len(fields)/d.width)
	for i, f := range fields {
		b, err := parseHex(f, 8)
		if err != nil {
			return nil, errBadStatement
		}
		values[i/d.width][i%d.width] = byte(b)
	}
	return values, nil
}

// Split a statement into its count byte and the remaining data
func (d *decoder) statement(line string) (uint64, string, error) {
	if !strings.HasPrefix(line, "db ") {
		return 0, "", errBadStatement
	}
	line = strings.TrimPrefix(line, "db ")

	var count, rest string
	if d.mode == WordWrites {
		parts := strings.SplitN(line, ":", 2)
		count = parts[0]
		if len(parts) == 2 {
			rest = strings.TrimSpace(parts[1])
			if !strings.HasPrefix(rest, "dw ") {
				return 0, "", errBadStatement
			}
			rest = strings.TrimPrefix(rest, "dw ")
		}
	} else {
		parts := strings.SplitN(line, ",", 2)
		count = parts[0]
		if len(parts) == 2 {
			rest = parts[1]
		}
	}

	n, err := parseHex(count, 8)
	if err != nil {
		return 0, "", errBadStatement
	}
	return n, rest, nil
}

// Work out the width and write mode of a table from its first data
// statement
func (d *decoder) layout(line string) error {
	d.mode, d.width = ByteWrites, 1
	if strings.Contains(line, ":") {
		d.mode = WordWrites
	}

	n, rest, err := d.statement(line)
	if err != nil || n == 0 {
		return err
	}

	count := uint64(1)
	if n&continuousBit != 0 {
		count = n &^ continuousBit
	}
	fields := uint64(len(strings.Split(rest, ",")))
	if count == 0 || fields%count != 0 {
		return errBadStatement
	}

	width := int(fields / count)
	if d.mode == WordWrites {
		width *= 2
	}
	if width > maxWidth {
		return errBadStatement
	}
	d.width = width

	return nil
}

func (d *decoder) decode() error {
	line, ok := d.next()
	if !ok {
		if err := d.s.Err(); err != nil {
			return err
		}
		return io.EOF
	}
	if !strings.HasSuffix(line, ":") {
		return d.errorf(errNoLabel)
	}
	d.name = strings.TrimSuffix(line, ":")

	for first := true; ; first = false {
		line, ok := d.next()
		if !ok {
			if err := d.s.Err(); err != nil {
				return err
			}
			return d.errorf(errNoTerminator)
		}

		if d.auto && first {
			if err := d.layout(line); err != nil {
				return d.errorf(err)
			}
		}

		n, rest, err := d.statement(line)
		if err != nil {
			return d.errorf(err)
		}
		if n == 0 {
			return nil
		}

		values, err := d.data(rest)
		if err != nil {
			return d.errorf(err)
		}

		if n&continuousBit != 0 {
			if len(values) != int(n&^continuousBit) {
				return d.errorf(errBadStatement)
			}
			d.values = append(d.values, values...)
			continue
		}

		if len(values) != 1 {
			return d.errorf(errBadStatement)
		}
		for i := uint64(0); i < n; i++ {
			d.values = append(d.values, values[0])
		}
	}
}

// Decoder reads consecutive tables written by WriteTo
type Decoder struct {
	d decoder
}

// NewDecoder returns a Decoder reading from r
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		d: decoder{
			s: bufio.NewScanner(r),
		},
	}
}

// Decode reads the next table and returns its label and the value written
// on each scanline. The width is the number of bytes per scanline, as
// returned by EffectiveWidth. It returns io.EOF when there are no more
// tables.
func (dec *Decoder) Decode(width int, mode WriteMode) (string, []Value, error) {
	if width < 1 || width > maxWidth || (mode == WordWrites && width%2 != 0) {
		return "", nil, fmt.Errorf("%w: %d", ErrInvalidColumnWidth, width)
	}

	d := &dec.d
	d.width, d.mode, d.auto = width, mode, false
	d.name, d.values = "", nil

	if err := d.decode(); err != nil {
		return "", nil, err
	}
	return d.name, d.values, nil
}

// Next reads the next table like Decode but works out the width and write
// mode from the first data statement of the table. They are available from
// Width and Mode afterwards. An empty table is reported as one byte wide.
func (dec *Decoder) Next() (string, []Value, error) {
	d := &dec.d
	d.auto = true
	d.name, d.values = "", nil

	if err := d.decode(); err != nil {
		return "", nil, err
	}
	return d.name, d.values, nil
}

// Width returns the width of the last table read
func (dec *Decoder) Width() int {
	return dec.d.width
}

// Mode returns the write mode of the last table read
func (dec *Decoder) Mode() WriteMode {
	return dec.d.mode
}

// Decode reads a single table from r
func Decode(r io.Reader, width int, mode WriteMode) (string, []Value, error) {
	return NewDecoder(r).Decode(width, mode)
}
