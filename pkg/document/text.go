package document

import (
	"fmt"
	"strings"

	"github.com/ssargent/omniconv/pkg/codec"
	"github.com/ssargent/omniconv/pkg/table"
)

// Row numbers (1-based) of the text layout
const (
	headerRow         = 1
	firstSeriesRow    = 2
	firstPayloadRow   = firstSeriesRow + codec.SeriesHeaderFields
	seriesCountColumn = 4
)

const byteOrderMark = "\ufeff"

// Rows renders the document as a text table:
//
//	row 1:     instrument name, method name, param, series count
//	rows 2-7:  one column per series: name, f0, f1, f2, f3, f4
//	rows 8-:   one column per series payload, blank once a series runs out
func (d *Document) Rows() [][]string {
	rows := make([][]string, 0, 1+codec.SeriesHeaderFields+d.maxElements())
	rows = append(rows, formatValues(d.Header.Values()))

	fields := make([][]string, len(d.Series))
	for i, s := range d.Series {
		fields[i] = formatValues(s.Values())
	}
	rows = append(rows, table.Forward(fields)...)

	samples := make([][]string, len(d.Payloads))
	for i, p := range d.Payloads {
		cells := make([]string, len(p))
		for j, v := range p {
			cells[j] = FormatFloat(v)
		}
		samples[i] = cells
	}
	return append(rows, table.Forward(samples)...)
}

func (d *Document) maxElements() int {
	n := 0
	for _, p := range d.Payloads {
		if len(p) > n {
			n = len(p)
		}
	}
	return n
}

// FromRows parses a text table produced by Rows (or edited by hand) back
// into a validated Document. Every cell is typed by its position; nothing is
// inferred from its content.
func FromRows(rows [][]string) (*Document, error) {
	if len(rows) == 0 {
		return nil, &codec.CellError{
			Kind:   codec.ErrFieldType,
			Row:    headerRow,
			Column: 1,
			Detail: "missing file header row",
		}
	}

	header, err := parseHeaderRow(rows[0])
	if err != nil {
		return nil, err
	}

	// Rows 2-7 have a fixed height, so blank cells there are real empty
	// strings (an unnamed series), not padding.
	block := make([][]string, codec.SeriesHeaderFields)
	copy(block, rows[1:])
	width := table.Width(block)

	series := make([]codec.SeriesHeader, width)
	counts := make([]int, width)
	for j, col := range table.Columns(block, width) {
		column := j + 1
		values, err := parseFields(codec.SeriesHeaderLayout, col, func(i int) (int, int) {
			return firstSeriesRow + i, column
		})
		if err != nil {
			return nil, err
		}
		s, err := codec.NewSeriesHeader(values)
		if err != nil {
			return nil, err
		}
		count, err := s.ElementCount()
		if err != nil {
			return nil, &codec.CellError{
				Kind:   codec.ErrPayloadLengthMismatch,
				Row:    firstSeriesRow + 3,
				Column: column,
				Field:  "f2",
				Detail: fmt.Sprintf("byte length %d is not a non-negative multiple of %d", s.F2, codec.SampleSize),
			}
		}
		series[j] = s
		counts[j] = count
	}

	var payloadRows [][]string
	if len(rows) > firstPayloadRow-1 {
		payloadRows = rows[firstPayloadRow-1:]
	}
	payloadWidth := table.Width(payloadRows)
	if payloadWidth < width {
		payloadWidth = width
	}
	sample := codec.SampleLayout.Fields[0]
	payloads, err := table.InverseFunc(payloadRows, payloadWidth, func(r, c int, cell string) (float32, error) {
		v, err := parseCell(sample, cell, firstPayloadRow+r, c+1)
		if err != nil {
			return 0, err
		}
		return v.(float32), nil
	})
	if err != nil {
		return nil, err
	}

	if err := checkCounts(header, series, counts, payloads); err != nil {
		return nil, err
	}

	doc := &Document{Header: header, Series: series, Payloads: payloads[:width]}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseHeaderRow(row []string) (codec.FileHeader, error) {
	cells := table.TrimTrailing(row)
	if len(cells) > 0 {
		// Spreadsheet exports prefix the file with a byte order mark
		cells = append([]string{strings.TrimPrefix(cells[0], byteOrderMark)}, cells[1:]...)
	}
	if n := len(codec.FileHeaderLayout.Fields); len(cells) > n {
		return codec.FileHeader{}, &codec.CellError{
			Kind:   codec.ErrFieldType,
			Row:    headerRow,
			Column: n + 1,
			Value:  cells[n],
			Detail: fmt.Sprintf("unexpected cell %q after %d file header fields", cells[n], n),
		}
	}

	values, err := parseFields(codec.FileHeaderLayout, cells, func(i int) (int, int) {
		return headerRow, i + 1
	})
	if err != nil {
		return codec.FileHeader{}, err
	}
	return codec.NewFileHeader(values)
}

// checkCounts validates the parsed table against its own declarations before
// anything is packed: the series count first, then the number of samples.
func checkCounts(header codec.FileHeader, series []codec.SeriesHeader, counts []int, payloads [][]float32) error {
	if int(header.SeriesCount) != len(series) {
		return &codec.CellError{
			Kind:   codec.ErrSeriesCountMismatch,
			Row:    headerRow,
			Column: seriesCountColumn,
			Field:  "series_count",
			Detail: fmt.Sprintf("header declares %d series, table has %d series columns",
				header.SeriesCount, len(series)),
		}
	}

	declared, parsed := 0, 0
	for _, c := range counts {
		declared += c
	}
	for _, p := range payloads {
		parsed += len(p)
	}

	for j := len(series); j < len(payloads); j++ {
		if len(payloads[j]) > 0 {
			return &codec.CellError{
				Kind:   codec.ErrPayloadLengthMismatch,
				Row:    firstPayloadRow,
				Column: j + 1,
				Detail: fmt.Sprintf("%d samples in a column with no series header (table has %d samples, headers declare %d)",
					len(payloads[j]), parsed, declared),
			}
		}
	}
	for j, s := range series {
		if len(payloads[j]) != counts[j] {
			return &codec.CellError{
				Kind:   codec.ErrPayloadLengthMismatch,
				Row:    firstPayloadRow + min(len(payloads[j]), counts[j]),
				Column: j + 1,
				Detail: fmt.Sprintf("series %q has %d samples, f2=%d declares %d (table has %d samples, headers declare %d)",
					s.Name, len(payloads[j]), s.F2, counts[j], parsed, declared),
			}
		}
	}
	return nil
}
