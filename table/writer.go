package table

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type encoder struct {
	w     *bufio.Writer
	width int
	mode  WriteMode
	n     int64
}

func (e *encoder) printf(format string, a ...interface{}) error {
	n, err := fmt.Fprintf(e.w, format, a...)
	e.n += int64(n)
	return err
}

// Words are written as little endian pairs so $HHLL puts LL first in memory
func (e *encoder) value(v Value) string {
	var parts []string
	if e.mode == WordWrites {
		for i := 0; i < e.width; i += 2 {
			parts = append(parts, fmt.Sprintf("$%02X%02X", v[i+1], v[i]))
		}
	} else {
		for i := 0; i < e.width; i++ {
			parts = append(parts, fmt.Sprintf("$%02X", v[i]))
		}
	}
	return strings.Join(parts, ",")
}

func (e *encoder) values(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = e.value(v)
	}
	return strings.Join(parts, ",")
}

func (e *encoder) row(count int, data string) error {
	if e.mode == WordWrites {
		return e.printf("db $%02X : dw %s\n", count, data)
	}
	return e.printf("db $%02X,%s\n", count, data)
}

func (e *encoder) encode(name string, rows []Row) error {
	if err := e.printf("%s:\n", name); err != nil {
		return err
	}

	for _, r := range rows {
		var err error
		switch r.kind {
		case Repeat:
			err = e.row(r.count, e.value(r.values[0]))
		case Continuous:
			err = e.row(continuousBit|r.count, e.values(r.values))
		case Terminator:
			err = e.printf("db $00\n")
		}
		if err != nil {
			return err
		}
	}

	return e.w.Flush()
}

// WriteTo writes the table to w as assembler data statements, a label
// followed by one line per row and the terminating zero byte. A table can
// only be written once.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	switch t.state {
	case Raw, Coagulated:
	default:
		return 0, fmt.Errorf("%w: write %s table", ErrTableState, t.state)
	}

	if t.pseudo {
		for _, r := range t.rows {
			if r.kind == Continuous {
				return 0, fmt.Errorf("%w: continuous row in pseudo table %s", ErrUnsupportedModeForTarget, t.name)
			}
		}
	}

	rows := t.rows
	if !t.terminated() {
		rows = append(t.Rows(), NewTerminator())
	}

	e := encoder{
		w:     bufio.NewWriter(w),
		width: t.EffectiveWidth(),
		mode:  t.mode,
	}
	if err := e.encode(t.name, rows); err != nil {
		return e.n, err
	}

	t.rows = rows
	t.state = Serialized

	return e.n, nil
}
