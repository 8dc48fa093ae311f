package document

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/ssargent/omniconv/pkg/codec"
)

// TableOptions controls how the text table is written
type TableOptions struct {
	CRLF bool // Terminate rows with \r\n, as the legacy tool did
}

// DefaultTableOptions returns the options matching files written by the
// legacy tool.
func DefaultTableOptions() TableOptions {
	return TableOptions{CRLF: true}
}

// ReadTable reads every row of a comma-separated table. Rows may have
// different lengths. Parse errors are reported against the table row, which
// differs from the line number once a quoted cell spans lines.
func ReadTable(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &codec.CellError{
					Kind:   codec.ErrFieldType,
					Row:    len(rows) + 1,
					Column: parseErr.Column,
					Detail: fmt.Sprintf("line %d: %v", parseErr.Line, parseErr.Err),
				}
			}
			return nil, fmt.Errorf("failed to read table: %w", err)
		}
		rows = append(rows, row)
	}
}

// WriteTable writes rows as comma-separated text. Fields containing commas,
// quotes or line breaks are quoted. A cell holding a carriage return is
// rejected before anything is written, since no reader would return it intact.
func WriteTable(w io.Writer, rows [][]string, opts TableOptions) error {
	for i, row := range rows {
		for j, cell := range row {
			if !codec.ValidString(cell) {
				return &codec.CellError{
					Kind:   codec.ErrFieldType,
					Row:    i + 1,
					Column: j + 1,
					Value:  cell,
					Detail: fmt.Sprintf("carriage return in %q", cell),
				}
			}
		}
	}

	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	cw.UseCRLF = opts.CRLF

	eol := "\n"
	if opts.CRLF {
		eol = "\r\n"
	}

	for _, row := range rows {
		// A lone empty field would be written as a blank line, which readers
		// skip. Quote it so the row keeps its place.
		if len(row) == 1 && row[0] == "" {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("failed to write table: %w", err)
			}
			if _, err := bw.WriteString(`""` + eol); err != nil {
				return fmt.Errorf("failed to write table: %w", err)
			}
			continue
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// MarshalText renders the document as a comma-separated table
func (d *Document) MarshalText() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteTable(&buf, d.Rows(), DefaultTableOptions()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalText replaces d with the document parsed from a comma-separated
// table.
func (d *Document) UnmarshalText(text []byte) error {
	rows, err := ReadTable(bytes.NewReader(text))
	if err != nil {
		return err
	}
	doc, err := FromRows(rows)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}
