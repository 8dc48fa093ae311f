package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ssargent/omniconv/pkg/codec"
)

// parseCell converts a text cell to the Go type declared for field.
// Row and col are 1-based and only used for error reporting.
func parseCell(field codec.Field, cell string, row, col int) (any, error) {
	switch field.Type {
	case codec.TypeString:
		if len(cell) > field.Size {
			return nil, &codec.CellError{
				Kind:     codec.ErrFieldTooLong,
				Row:      row,
				Column:   col,
				Field:    field.Name,
				Expected: field.Type,
				Value:    cell,
				Detail:   fmt.Sprintf("%d bytes exceeds width %d", len(cell), field.Size),
			}
		}
		if !codec.ValidString(cell) {
			return nil, &codec.CellError{
				Kind:     codec.ErrFieldType,
				Row:      row,
				Column:   col,
				Field:    field.Name,
				Expected: field.Type,
				Value:    cell,
				Detail:   "carriage return in string field",
			}
		}
		return cell, nil
	case codec.TypeInt32:
		v, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 32)
		if err != nil {
			return nil, typeError(field, cell, row, col)
		}
		return int32(v), nil
	case codec.TypeFloat32:
		v, err := parseFloat(cell)
		if err != nil {
			return nil, typeError(field, cell, row, col)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("field %s: unsupported type %s", field.Name, field.Type)
	}
}

// parseFloat accepts anything strconv does, including the "nan" and "inf"
// spellings written by other tools. Out-of-range values are rejected rather
// than silently saturated to infinity.
func parseFloat(cell string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

func typeError(field codec.Field, cell string, row, col int) error {
	return &codec.CellError{
		Kind:     codec.ErrFieldType,
		Row:      row,
		Column:   col,
		Field:    field.Name,
		Expected: field.Type,
		Value:    cell,
	}
}

// parseFields coerces one record's worth of cells. at maps a field index to
// its 1-based row and column. Missing cells are treated as blank.
func parseFields(l codec.Layout, cells []string, at func(i int) (row, col int)) ([]any, error) {
	values := make([]any, len(l.Fields))
	for i, f := range l.Fields {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		row, col := at(i)
		v, err := parseCell(f, cell, row, col)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// formatValue renders a field value as a text cell
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float32:
		return FormatFloat(x)
	default:
		return fmt.Sprint(x)
	}
}

// FormatFloat renders v as the shortest decimal that parses back to the same
// float32. Integral values keep a ".0" suffix so they read as floats.
func FormatFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func formatValues(values []any) []string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = formatValue(v)
	}
	return cells
}
