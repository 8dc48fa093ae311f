package codec

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// Reader unpacks records from an in-memory buffer, tracking the absolute
// offset so failures can be reported against the original file.
type Reader struct {
	data []byte
	pos  int
	base int64
}

// NewReader creates a reader positioned at the start of data
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// At returns a reader over data whose first byte sits at the given absolute
// offset. Used when a caller hands over a slice cut from a larger file.
func At(data []byte, offset int64) *Reader {
	return &Reader{data: data, base: offset}
}

// Pos returns the current absolute offset
func (r *Reader) Pos() int64 {
	return r.base + int64(r.pos)
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadRecord unpacks one record laid out as l. Strings have their trailing
// NUL padding removed.
func (r *Reader) ReadRecord(l Layout) ([]any, error) {
	size := l.Size()
	if r.Remaining() < size {
		return nil, &RecordError{
			Kind:   ErrTruncatedRecord,
			Record: l.Name,
			Offset: r.Pos(),
			Detail: fmt.Sprintf("need %d bytes, have %d", size, r.Remaining()),
		}
	}

	rec := r.data[r.pos : r.pos+size]
	values := make([]any, len(l.Fields))
	off := 0
	for i, f := range l.Fields {
		src := rec[off : off+f.Size]
		switch f.Type {
		case TypeString:
			s := string(bytes.TrimRight(src, "\x00"))
			if !ValidString(s) {
				return nil, &RecordError{
					Kind:   ErrFieldType,
					Record: l.Name,
					Field:  f.Name,
					Offset: r.Pos() + int64(off),
					Detail: fmt.Sprintf("carriage return at byte %d of %q", strings.IndexByte(s, '\r'), s),
				}
			}
			values[i] = s
		case TypeInt32:
			values[i] = int32(byteOrder.Uint32(src))
		case TypeFloat32:
			values[i] = math.Float32frombits(byteOrder.Uint32(src))
		}
		off += f.Size
	}

	r.pos += size
	return values, nil
}

// ReadFloats unpacks count contiguous float32 values
func (r *Reader) ReadFloats(count int) ([]float32, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative sample count %d", count)
	}
	if count > r.Remaining()/SampleSize {
		return nil, &RecordError{
			Kind:   ErrTruncatedRecord,
			Record: "payload",
			Offset: r.Pos(),
			Detail: fmt.Sprintf("need %d bytes, have %d", count*SampleSize, r.Remaining()),
		}
	}

	values := make([]float32, count)
	for i := range values {
		values[i] = math.Float32frombits(byteOrder.Uint32(r.data[r.pos:]))
		r.pos += SampleSize
	}
	return values, nil
}

// ReadFileHeader unpacks a FileHeader at the current position
func (r *Reader) ReadFileHeader() (FileHeader, error) {
	values, err := r.ReadRecord(FileHeaderLayout)
	if err != nil {
		return FileHeader{}, err
	}
	return NewFileHeader(values)
}

// ReadSeriesHeader unpacks a SeriesHeader at the current position
func (r *Reader) ReadSeriesHeader() (SeriesHeader, error) {
	values, err := r.ReadRecord(SeriesHeaderLayout)
	if err != nil {
		return SeriesHeader{}, err
	}
	return NewSeriesHeader(values)
}
