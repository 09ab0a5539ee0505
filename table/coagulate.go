package table

// Split rows at each terminator so that nothing is ever merged across one
func segments(rows []Row, f func([]Row) []Row) []Row {
	var out []Row
	start := 0
	for i, r := range rows {
		if r.kind == Terminator {
			out = append(out, f(rows[start:i])...)
			out = append(out, r)
			start = i + 1
		}
	}
	return append(out, f(rows[start:])...)
}

// Append count scanlines of v as repeat rows of no more than MaxCount each
func appendRepeat(rows []Row, count int, v Value) []Row {
	for count > 0 {
		n := count
		if n > MaxCount {
			n = MaxCount
		}
		rows = append(rows, Row{kind: Repeat, count: n, values: []Value{v}})
		count -= n
	}
	return rows
}

// Append values as continuous rows of no more than MaxCount each
func appendContinuous(rows []Row, values []Value) []Row {
	for len(values) > 0 {
		n := len(values)
		if n > MaxCount {
			n = MaxCount
		}
		rows = append(rows, newContinuous(values[:n]))
		values = values[n:]
	}
	return rows
}

func coagulate(rows []Row) []Row {
	stream := expand(rows)

	var out []Row
	var pending []Value

	for i := 0; i < len(stream); {
		j := i + 1
		for j < len(stream) && stream[j] == stream[i] {
			j++
		}

		// A repeat row costs 1+w bytes against k*w for the same
		// values in a continuous row, so any run of two or more
		// becomes a repeat row
		if k := j - i; k >= 2 {
			out = appendContinuous(out, pending)
			pending = pending[:0]
			out = appendRepeat(out, k, stream[i])
		} else {
			pending = append(pending, stream[i])
		}

		i = j
	}

	return appendContinuous(out, pending)
}

// Coagulate returns the smallest list of rows that writes the same value on
// every scanline as rows. Runs of identical values are merged into repeat
// rows regardless of which rows they originally came from, everything else
// is gathered into continuous rows. The result only depends on the values
// written so running it again on its own output changes nothing.
func Coagulate(rows []Row) []Row {
	return segments(rows, coagulate)
}

func coagulateRepeat(rows []Row) []Row {
	var out []Row
	for i := 0; i < len(rows); {
		r := rows[i]
		if r.kind != Repeat {
			out = append(out, r)
			i++
			continue
		}

		count := r.count
		j := i + 1
		for ; j < len(rows) && rows[j].kind == Repeat && rows[j].values[0] == r.values[0]; j++ {
			count += rows[j].count
		}

		out = appendRepeat(out, count, r.values[0])
		i = j
	}
	return out
}

// CoagulateRepeat only merges neighbouring repeat rows with the same value.
// It is used for tables that by construction only contain repeat rows.
func CoagulateRepeat(rows []Row) []Row {
	return segments(rows, coagulateRepeat)
}
