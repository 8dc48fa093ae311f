// Package table converts between parallel sequences of differing lengths and
// rectangular rows of text cells.
//
// Sequence j becomes column j. A sequence shorter than the longest one is
// padded with blank cells, so a blank cell always means "past the end of this
// sequence" and never a missing value inside it:
//
//	seqs: [a0 a1 a2] [] [c0 c1 c2 c3 c4]
//
//	row 0: a0, "", c0
//	row 1: a1, "", c1
//	row 2: a2, "", c2
//	row 3: "", "", c3
//	row 4: "", "", c4
//
// The functions here are pure; they neither read nor write files.
package table

// Blank is the cell written for an exhausted sequence
const Blank = ""

// Forward lays each sequence out as a column. The result has as many rows as
// the longest sequence and len(seqs) cells in every row.
func Forward(seqs [][]string) [][]string {
	height := 0
	for _, s := range seqs {
		if len(s) > height {
			height = len(s)
		}
	}

	rows := make([][]string, height)
	for r := range rows {
		row := make([]string, len(seqs))
		for c, s := range seqs {
			if r < len(s) {
				row[c] = s[r]
			} else {
				row[c] = Blank
			}
		}
		rows[r] = row
	}
	return rows
}

// Inverse collects the non-blank cells of the first width columns, in row
// order. Rows may be ragged; missing cells count as blank.
func Inverse(rows [][]string, width int) [][]string {
	seqs, _ := InverseFunc(rows, width, func(_, _ int, cell string) (string, error) {
		return cell, nil
	})
	return seqs
}

// InverseFunc is Inverse with a conversion applied to every non-blank cell.
// parse receives the 0-based row and column of the cell. The first error
// returned by parse stops the walk and is returned unchanged.
func InverseFunc[T any](rows [][]string, width int, parse func(row, col int, cell string) (T, error)) ([][]T, error) {
	if width < 0 {
		width = 0
	}
	seqs := make([][]T, width)
	for c := range seqs {
		seqs[c] = []T{}
	}

	for r, row := range rows {
		for c := 0; c < width && c < len(row); c++ {
			if row[c] == Blank {
				continue
			}
			v, err := parse(r, c, row[c])
			if err != nil {
				return nil, err
			}
			seqs[c] = append(seqs[c], v)
		}
	}
	return seqs, nil
}

// Columns splits rows into width columns keeping blank cells, so every column
// has len(rows) entries. Used where the table height is fixed and a blank is
// a real empty value rather than padding.
func Columns(rows [][]string, width int) [][]string {
	if width < 0 {
		width = 0
	}
	cols := make([][]string, width)
	for c := range cols {
		col := make([]string, len(rows))
		for r, row := range rows {
			if c < len(row) {
				col[r] = row[c]
			}
		}
		cols[c] = col
	}
	return cols
}

// Width returns the widest row once trailing blank cells are ignored.
// Spreadsheet exports often pad rows with empty cells.
func Width(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if n := len(TrimTrailing(row)); n > width {
			width = n
		}
	}
	return width
}

// TrimTrailing returns row without its trailing blank cells
func TrimTrailing(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == Blank {
		n--
	}
	return row[:n]
}
