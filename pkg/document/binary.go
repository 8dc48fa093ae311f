package document

import (
	"fmt"

	"github.com/ssargent/omniconv/pkg/codec"
)

// Decode parses a complete binary file. The payload block must be exactly
// the sum of the declared series lengths; trailing bytes are rejected so
// that re-encoding reproduces the input byte for byte.
func Decode(data []byte) (*Document, error) {
	r := codec.NewReader(data)

	header, err := r.ReadFileHeader()
	if err != nil {
		return nil, err
	}

	if header.SeriesCount < 0 {
		return nil, &codec.RecordError{
			Kind:   codec.ErrSeriesCountMismatch,
			Record: codec.FileHeaderLayout.Name,
			Field:  "series_count",
			Offset: int64(codec.FileHeaderLayout.Offset("series_count")),
			Detail: fmt.Sprintf("negative series count %d", header.SeriesCount),
		}
	}
	// Check before allocating so a corrupt count cannot blow up memory
	if int64(header.SeriesCount)*codec.SeriesHeaderSize > int64(r.Remaining()) {
		return nil, &codec.RecordError{
			Kind:   codec.ErrTruncatedRecord,
			Record: codec.SeriesHeaderLayout.Name,
			Offset: r.Pos(),
			Detail: fmt.Sprintf("%d series headers need %d bytes, have %d",
				header.SeriesCount, int64(header.SeriesCount)*codec.SeriesHeaderSize, r.Remaining()),
		}
	}

	doc := &Document{
		Header:   header,
		Series:   make([]codec.SeriesHeader, header.SeriesCount),
		Payloads: make([][]float32, header.SeriesCount),
	}

	counts := make([]int, header.SeriesCount)
	var payloadBytes int64
	for i := range doc.Series {
		start := r.Pos()
		s, err := r.ReadSeriesHeader()
		if err != nil {
			return nil, err
		}
		count, err := s.ElementCount()
		if err != nil {
			return nil, &codec.RecordError{
				Kind:   codec.ErrPayloadLengthMismatch,
				Record: fmt.Sprintf("series header %d", i),
				Field:  "f2",
				Offset: start + int64(codec.SeriesHeaderLayout.Offset("f2")),
				Detail: fmt.Sprintf("byte length %d is not a non-negative multiple of %d", s.F2, codec.SampleSize),
			}
		}
		doc.Series[i] = s
		counts[i] = count
		payloadBytes += int64(s.F2)
	}

	if payloadBytes > int64(r.Remaining()) {
		return nil, &codec.RecordError{
			Kind:   codec.ErrTruncatedRecord,
			Record: "payload",
			Offset: r.Pos(),
			Detail: fmt.Sprintf("series headers declare %d bytes, have %d", payloadBytes, r.Remaining()),
		}
	}

	// Each payload gets its own reader over its slice of the block, so a
	// failure still reports the offset within the file.
	off := r.Pos()
	for i, count := range counts {
		end := off + int64(doc.Series[i].F2)
		values, err := codec.At(data[off:end], off).ReadFloats(count)
		if err != nil {
			return nil, err
		}
		doc.Payloads[i] = values
		off = end
	}

	if trailing := int64(len(data)) - off; trailing > 0 {
		return nil, &codec.RecordError{
			Kind:   codec.ErrPayloadLengthMismatch,
			Record: "payload",
			Offset: off,
			Detail: fmt.Sprintf("%d trailing bytes after the declared payload", trailing),
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// MarshalBinary validates the document and packs it: the file header, each
// series header in order, then every payload back to back.
func (d *Document) MarshalBinary() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	w := codec.NewWriter(d.BinarySize())
	if err := w.WriteRecord(codec.FileHeaderLayout, d.Header.Values()); err != nil {
		return nil, err
	}
	for i, s := range d.Series {
		if err := w.WriteRecord(codec.SeriesHeaderLayout, s.Values()); err != nil {
			return nil, fmt.Errorf("series %d: %w", i, err)
		}
	}
	for _, p := range d.Payloads {
		w.WriteFloats(p)
	}
	return w.Bytes(), nil
}

// UnmarshalBinary replaces d with the decoded contents of data
func (d *Document) UnmarshalBinary(data []byte) error {
	doc, err := Decode(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}
