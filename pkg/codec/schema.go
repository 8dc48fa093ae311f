package codec

import (
	"fmt"
	"strings"
)

// FieldType is the on-disk type of a record field
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt32
	TypeFloat32
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt32:
		return "int32"
	case TypeFloat32:
		return "float32"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Field describes one fixed-width field of a record
type Field struct {
	Name string
	Type FieldType
	Size int // Width in bytes
}

// Layout is an ordered list of fields packed back to back with no padding.
type Layout struct {
	Name   string
	Fields []Field
}

// Size returns the packed size of the record in bytes
func (l Layout) Size() int {
	n := 0
	for _, f := range l.Fields {
		n += f.Size
	}
	return n
}

// Offset returns the byte offset of the named field within the record,
// or -1 if the layout has no such field.
func (l Layout) Offset(name string) int {
	off := 0
	for _, f := range l.Fields {
		if f.Name == name {
			return off
		}
		off += f.Size
	}
	return -1
}

// Check reports whether values line up with the layout's field types.
// String values must be string, int32 values int32 and float32 values float32.
func (l Layout) Check(values []any) error {
	if len(values) != len(l.Fields) {
		return fmt.Errorf("%s: got %d values for %d fields", l.Name, len(values), len(l.Fields))
	}
	for i, f := range l.Fields {
		ok := false
		switch f.Type {
		case TypeString:
			_, ok = values[i].(string)
		case TypeInt32:
			_, ok = values[i].(int32)
		case TypeFloat32:
			_, ok = values[i].(float32)
		}
		if !ok {
			return fmt.Errorf("%s.%s: want %s, got %T", l.Name, f.Name, f.Type, values[i])
		}
	}
	return nil
}

// Sizes of the fixed records
const (
	FileHeaderSize   = 56
	SeriesHeaderSize = 52
	SampleSize       = 4
)

// ValidString reports whether s may be stored in a string field. Carriage
// returns are rejected: CSV writers and readers rewrite them, so a name holding
// one would not come back from the text form unchanged.
func ValidString(s string) bool {
	return strings.IndexByte(s, '\r') < 0
}

// SeriesHeaderFields is the number of fields each series header contributes
// to the text table.
const SeriesHeaderFields = 6

var (
	// FileHeaderLayout is the record at offset 0 of every file.
	FileHeaderLayout = Layout{
		Name: "file header",
		Fields: []Field{
			{Name: "instrument_name", Type: TypeString, Size: 16},
			{Name: "method_name", Type: TypeString, Size: 32},
			{Name: "param", Type: TypeInt32, Size: 4},
			{Name: "series_count", Type: TypeInt32, Size: 4},
		},
	}

	// SeriesHeaderLayout is repeated once per series after the file header.
	// f2 holds the byte length of the series payload.
	SeriesHeaderLayout = Layout{
		Name: "series header",
		Fields: []Field{
			{Name: "name", Type: TypeString, Size: 32},
			{Name: "f0", Type: TypeInt32, Size: 4},
			{Name: "f1", Type: TypeInt32, Size: 4},
			{Name: "f2", Type: TypeInt32, Size: 4},
			{Name: "f3", Type: TypeInt32, Size: 4},
			{Name: "f4", Type: TypeInt32, Size: 4},
		},
	}

	// SampleLayout is a single payload element.
	SampleLayout = Layout{
		Name: "sample",
		Fields: []Field{
			{Name: "value", Type: TypeFloat32, Size: SampleSize},
		},
	}
)
