/*
Package table implements the HDMA table model used by the SNES, along with an
optimising pass that merges redundant rows and an encoder and decoder for the
assembler text consumed by the gradient macros.

A table is a list of rows terminated by a zero byte. Each row starts with a
line count byte; when bit 7 is clear the following value is written for that
many scanlines, when bit 7 is set the low 7 bits give the number of values
that follow, one per scanline. Each value is between one and four bytes wide
depending on the transfer mode of the channel.
*/
package table

import (
	"errors"
	"fmt"
)

const (
	// MaxCount is the largest scanline count a single row can carry
	MaxCount = 0x7f

	continuousBit = 0x80
	maxWidth      = 4
)

var (
	ErrInvalidCount             = errors.New("table: invalid row count")
	ErrInvalidColumnWidth       = errors.New("table: invalid column width")
	ErrUnsupportedModeForTarget = errors.New("table: row type not supported by target")
	ErrTableState               = errors.New("table: operation not valid in current state")
)

// WriteMode selects whether the table is rendered as bytes or words
type WriteMode int

const (
	ByteWrites WriteMode = iota
	WordWrites
)

func (m WriteMode) String() string {
	switch m {
	case ByteWrites:
		return "bytes"
	case WordWrites:
		return "words"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

// State tracks the lifecycle of a table
type State int

const (
	Unbuilt State = iota
	Raw
	Coagulated
	Serialized
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Raw:
		return "raw"
	case Coagulated:
		return "coagulated"
	case Serialized:
		return "serialized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Table is an ordered list of rows along with how they should be written
type Table struct {
	name   string
	width  int
	mode   WriteMode
	pseudo bool
	state  State

	rows []Row
}

func validWidth(width int, mode WriteMode, pseudo bool) bool {
	switch width {
	case 1, 2, 4:
		return true
	case 3:
		return pseudo && mode == ByteWrites
	default:
		return false
	}
}

// New returns an empty HDMA table with the given name, column width in bytes
// and write mode. Only widths of 1, 2 and 4 are accepted.
func New(name string, width int, mode WriteMode) (*Table, error) {
	if !validWidth(width, mode, false) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColumnWidth, width)
	}
	return &Table{
		name:  name,
		width: width,
		mode:  mode,
		state: Raw,
	}, nil
}

// NewPseudo returns an empty table that isn't loaded directly by the HDMA
// hardware, such as the tables read by the scrollable gradient code. These
// additionally accept a width of 3 bytes.
func NewPseudo(name string, width int, mode WriteMode) (*Table, error) {
	if !validWidth(width, mode, true) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColumnWidth, width)
	}
	return &Table{
		name:   name,
		width:  width,
		mode:   mode,
		pseudo: true,
		state:  Raw,
	}, nil
}

// Name returns the label used when writing the table
func (t *Table) Name() string {
	return t.name
}

// Width returns the column width in bytes
func (t *Table) Width() int {
	return t.width
}

// EffectiveWidth returns the number of bytes written per scanline, which for
// word writes is the width rounded up to the next even number
func (t *Table) EffectiveWidth() int {
	if t.mode == WordWrites {
		return (t.width + 1) &^ 1
	}
	return t.width
}

// Mode returns the write mode
func (t *Table) Mode() WriteMode {
	return t.mode
}

// Pseudo reports whether the table is a pseudo table
func (t *Table) Pseudo() bool {
	return t.pseudo
}

// State returns the current lifecycle state
func (t *Table) State() State {
	return t.state
}

// Rows returns a copy of the rows in the table
func (t *Table) Rows() []Row {
	return append(t.rows[:0:0], t.rows...)
}

func (t *Table) terminated() bool {
	return len(t.rows) > 0 && t.rows[len(t.rows)-1].kind == Terminator
}

// body returns the rows before any terminator
func (t *Table) body() []Row {
	if t.terminated() {
		return t.rows[:len(t.rows)-1]
	}
	return t.rows
}

// Push appends a row to a table that hasn't been optimised or written yet.
// Once a terminator row has been pushed no more rows are accepted.
func (t *Table) Push(r Row) error {
	if t.state != Raw || t.terminated() {
		return fmt.Errorf("%w: push to %s table", ErrTableState, t.state)
	}
	if r.kind == Invalid {
		return ErrInvalidCount
	}
	t.rows = append(t.rows, r)
	return nil
}

// Scanlines returns the number of scanlines covered by the table
func (t *Table) Scanlines() int {
	n := 0
	for _, r := range t.rows {
		n += r.Scanlines()
	}
	return n
}

// Stream returns one value per scanline covered by the table
func (t *Table) Stream() []Value {
	return expand(t.rows)
}

// Size returns the number of bytes the table occupies once assembled,
// including the terminating zero byte
func (t *Table) Size() int {
	w := t.EffectiveWidth()
	n := 1
	for _, r := range t.body() {
		switch r.kind {
		case Repeat:
			n += 1 + w
		case Continuous:
			n += 1 + w*len(r.values)
		}
	}
	return n
}

func (t *Table) optimise(f func([]Row) []Row) error {
	switch t.state {
	case Raw, Coagulated:
	default:
		return fmt.Errorf("%w: coagulate %s table", ErrTableState, t.state)
	}
	t.rows = append(f(t.body()), NewTerminator())
	t.state = Coagulated
	return nil
}

// Coagulate rewrites the table with the fewest rows that produce the same
// value on every scanline
func (t *Table) Coagulate() error {
	return t.optimise(Coagulate)
}

// CoagulateRepeat merges neighbouring repeat rows with the same value,
// leaving any continuous rows as they are
func (t *Table) CoagulateRepeat() error {
	return t.optimise(CoagulateRepeat)
}
