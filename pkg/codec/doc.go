// Package codec packs and unpacks the fixed-layout records of Omnisec
// chromatography export files.
//
// # File Format
//
// A file is a file header, one series header per series, and a single
// contiguous block of float32 samples:
//
//	[FileHeader(56)][SeriesHeader(52) x N][float32 x sum(F2)/4]
//
// FileHeader:
//   - InstrumentName: 16 bytes, NUL padded
//   - MethodName: 32 bytes, NUL padded
//   - Param: int32, meaning unknown, preserved verbatim
//   - SeriesCount: int32, number of series headers (N)
//
// SeriesHeader:
//   - Name: 32 bytes, NUL padded
//   - F0..F4: int32; F2 is the byte length of the series payload
//
// Payloads follow in series header order, each F2 bytes long.
//
// All integers and floats are little-endian. The legacy tooling used the
// host byte order; every producing system we have seen is little-endian, so
// that order is fixed here rather than taken from the platform.
//
// # Strings
//
// String fields are written as raw bytes followed by NUL padding up to the
// field width. A string longer than its field fails with ErrFieldTooLong.
// Reading trims every trailing NUL byte, so a field filled to its full width
// decodes without truncation.
//
// # Layouts
//
// Records are described by Layout values (FileHeaderLayout,
// SeriesHeaderLayout, SampleLayout). Reader and Writer walk a Layout field by
// field, and the text converter uses the same layouts to decide how each
// table cell is typed.
//
// # Error Handling
//
// Failures wrap one of the package sentinels (ErrTruncatedRecord,
// ErrFieldTooLong, ErrFieldType, ErrSeriesCountMismatch,
// ErrPayloadLengthMismatch) and are matched with errors.Is. RecordError
// carries the byte offset of a binary failure; CellError carries the row and
// column of a text failure.
package codec
