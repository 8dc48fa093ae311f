package codec

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrTruncatedRecord       = errors.New("truncated record")
	ErrFieldTooLong          = errors.New("field too long")
	ErrFieldType             = errors.New("field type error")
	ErrSeriesCountMismatch   = errors.New("series count mismatch")
	ErrPayloadLengthMismatch = errors.New("payload length mismatch")
)

// RecordError locates a failure in the binary form of a document
type RecordError struct {
	Kind   error  // One of the package sentinels
	Record string // Record name, e.g. "series header 2"
	Field  string // Field name, empty for whole-record failures
	Offset int64  // Absolute byte offset
	Detail string
}

func (e *RecordError) Error() string {
	where := e.Record
	if e.Field != "" {
		where += "." + e.Field
	}
	msg := fmt.Sprintf("%v: %s at byte offset %d", e.Kind, where, e.Offset)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *RecordError) Unwrap() error {
	return e.Kind
}

// CellError locates a failure in the text form of a document.
// Row and Column are 1-based.
type CellError struct {
	Kind     error
	Row      int
	Column   int
	Field    string
	Expected FieldType
	Value    string
	Detail   string
}

func (e *CellError) Error() string {
	where := fmt.Sprintf("row %d, column %d", e.Row, e.Column)
	if e.Field != "" {
		where += " (" + e.Field + ")"
	}
	if e.Detail != "" {
		return fmt.Sprintf("%v at %s: %s", e.Kind, where, e.Detail)
	}
	return fmt.Sprintf("%v at %s: expected %s, got %q", e.Kind, where, e.Expected, e.Value)
}

func (e *CellError) Unwrap() error {
	return e.Kind
}
