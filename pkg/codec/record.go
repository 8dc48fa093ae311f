package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// byteOrder is fixed for every integer and float in the format. The instrument
// software runs on x86 Windows hosts, so files in the wild are little-endian.
var byteOrder = binary.LittleEndian

// FileHeader is the 56-byte record at the start of every file
type FileHeader struct {
	InstrumentName string // Up to 16 bytes
	MethodName     string // Up to 32 bytes
	Param          int32  // Opaque, preserved verbatim
	SeriesCount    int32  // Number of series headers that follow
}

// SeriesHeader describes one series. F2 is the payload length in bytes;
// the other integers are opaque and preserved verbatim.
type SeriesHeader struct {
	Name string // Up to 32 bytes
	F0   int32
	F1   int32
	F2   int32
	F3   int32
	F4   int32
}

// NewFileHeader builds a FileHeader from values in FileHeaderLayout order
func NewFileHeader(values []any) (FileHeader, error) {
	if err := FileHeaderLayout.Check(values); err != nil {
		return FileHeader{}, err
	}
	return FileHeader{
		InstrumentName: values[0].(string),
		MethodName:     values[1].(string),
		Param:          values[2].(int32),
		SeriesCount:    values[3].(int32),
	}, nil
}

// Values returns the header fields in FileHeaderLayout order
func (h FileHeader) Values() []any {
	return []any{h.InstrumentName, h.MethodName, h.Param, h.SeriesCount}
}

// NewSeriesHeader builds a SeriesHeader from values in SeriesHeaderLayout order
func NewSeriesHeader(values []any) (SeriesHeader, error) {
	if err := SeriesHeaderLayout.Check(values); err != nil {
		return SeriesHeader{}, err
	}
	return SeriesHeader{
		Name: values[0].(string),
		F0:   values[1].(int32),
		F1:   values[2].(int32),
		F2:   values[3].(int32),
		F3:   values[4].(int32),
		F4:   values[5].(int32),
	}, nil
}

// Values returns the series header fields in SeriesHeaderLayout order
func (s SeriesHeader) Values() []any {
	return []any{s.Name, s.F0, s.F1, s.F2, s.F3, s.F4}
}

// ByteLength returns the declared payload length in bytes
func (s SeriesHeader) ByteLength() int32 {
	return s.F2
}

// ElementCount returns the number of float32 samples in the payload.
// It fails when F2 is negative or not a multiple of the sample size.
func (s SeriesHeader) ElementCount() (int, error) {
	if s.F2 < 0 || s.F2%SampleSize != 0 {
		return 0, fmt.Errorf("%w: byte length %d is not a non-negative multiple of %d",
			ErrPayloadLengthMismatch, s.F2, SampleSize)
	}
	return int(s.F2 / SampleSize), nil
}

// PackHeader packs h into its 56-byte form
func PackHeader(h FileHeader) ([]byte, error) {
	w := NewWriter(FileHeaderSize)
	if err := w.WriteRecord(FileHeaderLayout, h.Values()); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// UnpackHeader unpacks a FileHeader from the first 56 bytes of data
func UnpackHeader(data []byte) (FileHeader, error) {
	return NewReader(data).ReadFileHeader()
}

// PackSeriesHeader packs s into its 52-byte form
func PackSeriesHeader(s SeriesHeader) ([]byte, error) {
	w := NewWriter(SeriesHeaderSize)
	if err := w.WriteRecord(SeriesHeaderLayout, s.Values()); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// UnpackSeriesHeader unpacks a SeriesHeader from the first 52 bytes of data
func UnpackSeriesHeader(data []byte) (SeriesHeader, error) {
	return NewReader(data).ReadSeriesHeader()
}

// PackFloats packs values into 4*len(values) bytes
func PackFloats(values []float32) []byte {
	buf := make([]byte, len(values)*SampleSize)
	for i, v := range values {
		byteOrder.PutUint32(buf[i*SampleSize:], math.Float32bits(v))
	}
	return buf
}

// UnpackFloats unpacks count float32 values from the start of data
func UnpackFloats(data []byte, count int) ([]float32, error) {
	return NewReader(data).ReadFloats(count)
}
