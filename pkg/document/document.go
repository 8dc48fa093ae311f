// Package document assembles whole Omnisec files from their records and
// converts them to and from the comma-separated text table.
//
// A Document is built for a single conversion, validated, emitted and then
// dropped; nothing is shared between conversions.
package document

import (
	"fmt"

	"github.com/ssargent/omniconv/pkg/codec"
)

// Document is the fully parsed content of one file
type Document struct {
	Header   codec.FileHeader
	Series   []codec.SeriesHeader
	Payloads [][]float32 // Index-aligned with Series
}

// Validate checks the invariants that tie the header, series headers and
// payloads together.
func (d *Document) Validate() error {
	if d.Header.SeriesCount < 0 || int(d.Header.SeriesCount) != len(d.Series) {
		return fmt.Errorf("%w: header declares %d series, document has %d",
			codec.ErrSeriesCountMismatch, d.Header.SeriesCount, len(d.Series))
	}
	if len(d.Payloads) != len(d.Series) {
		return fmt.Errorf("%w: %d series headers but %d payloads",
			codec.ErrSeriesCountMismatch, len(d.Series), len(d.Payloads))
	}
	for _, name := range []string{d.Header.InstrumentName, d.Header.MethodName} {
		if !codec.ValidString(name) {
			return fmt.Errorf("%w: file header field %q contains a carriage return", codec.ErrFieldType, name)
		}
	}
	for i, s := range d.Series {
		if !codec.ValidString(s.Name) {
			return fmt.Errorf("%w: series %d name %q contains a carriage return", codec.ErrFieldType, i, s.Name)
		}
		count, err := s.ElementCount()
		if err != nil {
			return fmt.Errorf("series %d (%q): %w", i, s.Name, err)
		}
		if len(d.Payloads[i]) != count {
			return fmt.Errorf("%w: series %d (%q) has %d samples, f2=%d declares %d",
				codec.ErrPayloadLengthMismatch, i, s.Name, len(d.Payloads[i]), s.F2, count)
		}
	}
	return nil
}

// SampleCount returns the total number of samples across all series
func (d *Document) SampleCount() int {
	n := 0
	for _, p := range d.Payloads {
		n += len(p)
	}
	return n
}

// BinarySize returns the size of the packed file in bytes
func (d *Document) BinarySize() int {
	return codec.FileHeaderSize + len(d.Series)*codec.SeriesHeaderSize + d.SampleCount()*codec.SampleSize
}
