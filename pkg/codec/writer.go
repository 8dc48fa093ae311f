package codec

import (
	"fmt"
	"math"
)

// Writer accumulates packed records in memory
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with room for sizeHint bytes
func NewWriter(sizeHint int) *Writer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Len returns the number of bytes written so far
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the packed bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteRecord packs values according to l. Nothing is appended on error.
func (w *Writer) WriteRecord(l Layout, values []any) error {
	if err := l.Check(values); err != nil {
		return err
	}

	start := len(w.buf)
	rec := make([]byte, l.Size())
	off := 0
	for i, f := range l.Fields {
		dst := rec[off : off+f.Size]
		switch f.Type {
		case TypeString:
			s := values[i].(string)
			if len(s) > f.Size {
				return &RecordError{
					Kind:   ErrFieldTooLong,
					Record: l.Name,
					Field:  f.Name,
					Offset: int64(start + off),
					Detail: fmt.Sprintf("%d bytes exceeds width %d", len(s), f.Size),
				}
			}
			if !ValidString(s) {
				return &RecordError{
					Kind:   ErrFieldType,
					Record: l.Name,
					Field:  f.Name,
					Offset: int64(start + off),
					Detail: fmt.Sprintf("carriage return in %q", s),
				}
			}
			// rec is zeroed, so the remainder is already NUL padding
			copy(dst, s)
		case TypeInt32:
			byteOrder.PutUint32(dst, uint32(values[i].(int32)))
		case TypeFloat32:
			byteOrder.PutUint32(dst, math.Float32bits(values[i].(float32)))
		}
		off += f.Size
	}

	w.buf = append(w.buf, rec...)
	return nil
}

// WriteFloats appends values as a contiguous float32 array
func (w *Writer) WriteFloats(values []float32) {
	w.buf = append(w.buf, PackFloats(values)...)
}
