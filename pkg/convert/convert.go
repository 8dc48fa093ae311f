// Package convert runs whole-file conversions between Omnisec binary files and
// comma-separated text tables.
//
// Each conversion reads its input fully, builds and validates a
// document.Document, and only then writes the output. Nothing is written when
// the input is rejected.
package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/omniconv/pkg/document"
	"github.com/ssargent/omniconv/pkg/storage"
)

// Mode is the direction of a conversion
type Mode int

const (
	ModeDecode Mode = iota // binary to text
	ModeEncode             // text to binary
)

func (m Mode) String() string {
	switch m {
	case ModeDecode:
		return "decode"
	case ModeEncode:
		return "encode"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DecodeExtensions are the file extensions written by the instrument software
var DecodeExtensions = []string{
	".chrome_flt",
	".chrome_uflt",
	".chromeuvd",
	".chromeenv",
	".noise",
	".chromeanalysis",
	".out",
}

// EncodeExtension is the extension of text tables
const EncodeExtension = ".csv"

// IsKnownInput reports whether path has an extension expected for mode
func IsKnownInput(mode Mode, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if mode == ModeEncode {
		return ext == EncodeExtension
	}
	for _, known := range DecodeExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// DefaultOutputPath names the output of a conversion when none is given:
// the input path with ".csv" appended for decode and ".out" for encode.
func DefaultOutputPath(mode Mode, input string) string {
	if mode == ModeEncode {
		return input + ".out"
	}
	return input + EncodeExtension
}

// Options configures a Converter
type Options struct {
	Force  bool // Replace existing outputs
	Table  document.TableOptions
	Logger *zap.Logger
}

// DefaultOptions returns options that refuse to overwrite and write CRLF rows
func DefaultOptions() Options {
	return Options{
		Table:  document.DefaultTableOptions(),
		Logger: zap.NewNop(),
	}
}

// Result describes a finished conversion
type Result struct {
	RunID       string        `json:"run_id"`
	Mode        string        `json:"mode"`
	Input       string        `json:"input,omitempty"`
	Output      string        `json:"output,omitempty"`
	InputBytes  int           `json:"input_bytes"`
	OutputBytes int           `json:"output_bytes"`
	Series      int           `json:"series"`
	Samples     int           `json:"samples"`
	Duration    time.Duration `json:"duration"`
}

func (r *Result) fields() []zap.Field {
	return []zap.Field{
		zap.String("run_id", r.RunID),
		zap.String("mode", r.Mode),
		zap.Int("input_bytes", r.InputBytes),
		zap.Int("output_bytes", r.OutputBytes),
		zap.Int("series", r.Series),
		zap.Int("samples", r.Samples),
		zap.Duration("duration", r.Duration),
	}
}

// Converter converts files. It holds no state between calls and is safe for
// concurrent use.
type Converter struct {
	opts    Options
	storage *storage.FileStorage
	logger  *zap.Logger
}

// New returns a Converter for opts
func New(opts Options) *Converter {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		opts:    opts,
		storage: storage.NewFileStorage(opts.Force),
		logger:  logger,
	}
}

func newRun(mode Mode) *Result {
	return &Result{RunID: ksuid.New().String(), Mode: mode.String()}
}

// DecodeBytes converts a binary file held in memory to a text table
func (c *Converter) DecodeBytes(data []byte) ([]byte, *Result, error) {
	start := time.Now()
	res := newRun(ModeDecode)
	res.InputBytes = len(data)

	doc, err := document.Decode(data)
	if err != nil {
		return nil, res, err
	}

	var buf bytes.Buffer
	if err := document.WriteTable(&buf, doc.Rows(), c.opts.Table); err != nil {
		return nil, res, err
	}

	res.OutputBytes = buf.Len()
	res.Series = len(doc.Series)
	res.Samples = doc.SampleCount()
	res.Duration = time.Since(start)
	c.logger.Debug("decoded document", res.fields()...)
	return buf.Bytes(), res, nil
}

// EncodeText converts a text table held in memory to a binary file
func (c *Converter) EncodeText(text []byte) ([]byte, *Result, error) {
	start := time.Now()
	res := newRun(ModeEncode)
	res.InputBytes = len(text)

	rows, err := document.ReadTable(bytes.NewReader(text))
	if err != nil {
		return nil, res, err
	}
	doc, err := document.FromRows(rows)
	if err != nil {
		return nil, res, err
	}
	data, err := doc.MarshalBinary()
	if err != nil {
		return nil, res, err
	}

	res.OutputBytes = len(data)
	res.Series = len(doc.Series)
	res.Samples = doc.SampleCount()
	res.Duration = time.Since(start)
	c.logger.Debug("encoded document", append(res.fields(), zap.Int("rows", len(rows)))...)
	return data, res, nil
}

// Decode converts the binary file at input to a text table at output. An
// empty output uses DefaultOutputPath.
func (c *Converter) Decode(input, output string) (*Result, error) {
	return c.run(ModeDecode, input, output, c.DecodeBytes)
}

// Encode converts the text table at input to a binary file at output. An
// empty output uses DefaultOutputPath.
func (c *Converter) Encode(input, output string) (*Result, error) {
	return c.run(ModeEncode, input, output, c.EncodeText)
}

func (c *Converter) run(mode Mode, input, output string, convert func([]byte) ([]byte, *Result, error)) (*Result, error) {
	if output == "" {
		output = DefaultOutputPath(mode, input)
	}
	logger := c.logger.With(zap.String("input", input), zap.String("output", output))
	if !IsKnownInput(mode, input) {
		logger.Warn("unrecognized input extension", zap.String("mode", mode.String()))
	}

	if err := c.storage.Check(output); err != nil {
		return nil, err
	}
	data, err := c.storage.Read(input)
	if err != nil {
		return nil, err
	}

	out, res, err := convert(data)
	res.Input, res.Output = input, output
	if err != nil {
		return res, fmt.Errorf("%s: %w", input, err)
	}
	if err := c.storage.Write(output, out); err != nil {
		return res, err
	}

	logger.Info("conversion complete", res.fields()...)
	return res, nil
}

// Inspect summarizes the binary file at input without writing anything
func (c *Converter) Inspect(input string) (document.Summary, error) {
	data, err := c.storage.Read(input)
	if err != nil {
		return document.Summary{}, err
	}
	summary, err := c.InspectBytes(data)
	if err != nil {
		return document.Summary{}, fmt.Errorf("%s: %w", input, err)
	}
	return summary, nil
}

// InspectBytes summarizes a binary file held in memory
func (c *Converter) InspectBytes(data []byte) (document.Summary, error) {
	doc, err := document.Decode(data)
	if err != nil {
		return document.Summary{}, err
	}
	return doc.Summarize(), nil
}

// Decode converts a binary file to a text table with default options
func Decode(input, output string) error {
	_, err := New(DefaultOptions()).Decode(input, output)
	return err
}

// Encode converts a text table to a binary file with default options
func Encode(input, output string) error {
	_, err := New(DefaultOptions()).Encode(input, output)
	return err
}
