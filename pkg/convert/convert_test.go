package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ssargent/omniconv/pkg/codec"
	"github.com/ssargent/omniconv/pkg/document"
	"github.com/ssargent/omniconv/pkg/storage"
)

const sampleText = "ABC,METHOD1,7,2\r\n" +
	"S1,S2\r\n" +
	"1,5\r\n" +
	"2,6\r\n" +
	"12,8\r\n" +
	"3,7\r\n" +
	"4,8\r\n" +
	"1.0,4.0\r\n" +
	"2.0,5.0\r\n" +
	"3.0,\r\n"

func sampleBinary(t *testing.T) []byte {
	t.Helper()
	doc := &document.Document{
		Header: codec.FileHeader{InstrumentName: "ABC", MethodName: "METHOD1", Param: 7, SeriesCount: 2},
		Series: []codec.SeriesHeader{
			{Name: "S1", F0: 1, F1: 2, F2: 12, F3: 3, F4: 4},
			{Name: "S2", F0: 5, F1: 6, F2: 8, F3: 7, F4: 8},
		},
		Payloads: [][]float32{{1, 2, 3}, {4, 5}},
	}
	data, err := doc.MarshalBinary()
	require.NoError(t, err)
	return data
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func observedConverter(opts Options) (*Converter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts.Logger = zap.New(core)
	return New(opts), logs
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "run1.chrome_flt.csv", DefaultOutputPath(ModeDecode, "run1.chrome_flt"))
	assert.Equal(t, "run1.chrome_flt.csv.out", DefaultOutputPath(ModeEncode, "run1.chrome_flt.csv"))
}

func TestIsKnownInput(t *testing.T) {
	tests := []struct {
		mode Mode
		path string
		want bool
	}{
		{ModeDecode, "a.chrome_flt", true},
		{ModeDecode, "a.chrome_uflt", true},
		{ModeDecode, "dir/a.CHROMEUVD", true},
		{ModeDecode, "a.chromeenv", true},
		{ModeDecode, "a.noise", true},
		{ModeDecode, "a.chromeanalysis", true},
		{ModeDecode, "a.out", true},
		{ModeDecode, "a.csv", false},
		{ModeDecode, "a", false},
		{ModeEncode, "a.csv", true},
		{ModeEncode, "a.chrome_flt", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String()+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsKnownInput(tt.mode, tt.path))
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "decode", ModeDecode.String())
	assert.Equal(t, "encode", ModeEncode.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestConverter_Decode(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.chrome_flt")
	writeFile(t, input, sampleBinary(t))

	c, logs := observedConverter(DefaultOptions())
	res, err := c.Decode(input, "")
	require.NoError(t, err)

	output := input + ".csv"
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, sampleText, string(data))

	assert.Equal(t, "decode", res.Mode)
	assert.Equal(t, input, res.Input)
	assert.Equal(t, output, res.Output)
	assert.Equal(t, 180, res.InputBytes)
	assert.Equal(t, len(sampleText), res.OutputBytes)
	assert.Equal(t, 2, res.Series)
	assert.Equal(t, 5, res.Samples)
	_, err = ksuid.Parse(res.RunID)
	assert.NoError(t, err)

	entries := logs.FilterMessage("conversion complete").All()
	require.Len(t, entries, 1)
	assert.Equal(t, res.RunID, entries[0].ContextMap()["run_id"])
	assert.Equal(t, output, entries[0].ContextMap()["output"])
	assert.Zero(t, logs.FilterMessage("unrecognized input extension").Len())
}

func TestConverter_DecodeLF(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.chrome_flt")
	output := filepath.Join(dir, "run.csv")
	writeFile(t, input, sampleBinary(t))

	opts := DefaultOptions()
	opts.Table.CRLF = false
	_, err := New(opts).Decode(input, output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, strings.ReplaceAll(sampleText, "\r\n", "\n"), string(data))
}

func TestConverter_Encode(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.csv")
	writeFile(t, input, []byte(sampleText))

	res, err := New(DefaultOptions()).Encode(input, "")
	require.NoError(t, err)

	data, err := os.ReadFile(input + ".out")
	require.NoError(t, err)
	assert.Equal(t, sampleBinary(t), data)
	assert.Equal(t, "encode", res.Mode)
	assert.Equal(t, 180, res.OutputBytes)
}

func TestConverter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.chrome_flt")
	original := sampleBinary(t)
	writeFile(t, input, original)

	c := New(DefaultOptions())
	_, err := c.Decode(input, filepath.Join(dir, "run.csv"))
	require.NoError(t, err)
	_, err = c.Encode(filepath.Join(dir, "run.csv"), filepath.Join(dir, "again.chrome_flt"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "again.chrome_flt"))
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestConverter_FailuresWriteNothing(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		input []byte
		kind  string
	}{
		{
			name:  "truncated binary",
			mode:  ModeDecode,
			input: []byte("short"),
			kind:  KindTruncatedRecord,
		},
		{
			name:  "series count mismatch",
			mode:  ModeEncode,
			input: []byte(strings.Replace(sampleText, "METHOD1,7,2", "METHOD1,7,3", 1)),
			kind:  KindSeriesCountMismatch,
		},
		{
			name:  "payload length mismatch",
			mode:  ModeEncode,
			input: []byte(sampleText + "9.0,\r\n"),
			kind:  KindPayloadLengthMismatch,
		},
		{
			name:  "field type",
			mode:  ModeEncode,
			input: []byte(strings.Replace(sampleText, "2.0,5.0", "2.0,five", 1)),
			kind:  KindFieldType,
		},
		{
			name:  "field too long",
			mode:  ModeEncode,
			input: []byte(strings.Replace(sampleText, "ABC", "ABCDEFGHIJKLMNOPQ", 1)),
			kind:  KindFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "in")
			output := filepath.Join(dir, "out")
			writeFile(t, input, tt.input)

			c := New(DefaultOptions())
			var err error
			if tt.mode == ModeDecode {
				_, err = c.Decode(input, output)
			} else {
				_, err = c.Encode(input, output)
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, ErrorKind(err))
			assert.True(t, IsInputError(err))
			assert.Contains(t, err.Error(), input)

			_, statErr := os.Stat(output)
			assert.True(t, errors.Is(statErr, os.ErrNotExist), "output must not exist")

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "only the input remains")
		})
	}
}

func TestConverter_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.chrome_flt")
	output := filepath.Join(dir, "run.csv")
	writeFile(t, input, sampleBinary(t))
	writeFile(t, output, []byte("keep me"))

	_, err := New(DefaultOptions()).Decode(input, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrOutputExists)
	assert.Equal(t, KindIO, ErrorKind(err))
	assert.False(t, IsInputError(err))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))

	opts := DefaultOptions()
	opts.Force = true
	_, err = New(opts).Decode(input, output)
	require.NoError(t, err)

	data, err = os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, sampleText, string(data))
}

func TestConverter_MissingInput(t *testing.T) {
	dir := t.TempDir()

	_, err := New(DefaultOptions()).Decode(filepath.Join(dir, "nope.chrome_flt"), "")
	require.Error(t, err)
	assert.Equal(t, KindIO, ErrorKind(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConverter_UnknownExtensionWarns(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.bin")
	writeFile(t, input, sampleBinary(t))

	c, logs := observedConverter(DefaultOptions())
	_, err := c.Decode(input, "")
	require.NoError(t, err)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "unrecognized input extension", warnings[0].Message)
}

func TestConverter_Inspect(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.chrome_flt")
	writeFile(t, input, sampleBinary(t))

	summary, err := New(DefaultOptions()).Inspect(input)
	require.NoError(t, err)
	assert.Equal(t, "ABC", summary.InstrumentName)
	assert.Equal(t, "METHOD1", summary.MethodName)
	assert.Equal(t, int32(7), summary.Param)
	require.Len(t, summary.Series, 2)
	assert.Equal(t, 3, summary.Series[0].ElementCount)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "inspect writes nothing")

	writeFile(t, input, []byte{1, 2, 3})
	_, err = New(DefaultOptions()).Inspect(input)
	assert.Equal(t, KindTruncatedRecord, ErrorKind(err))
}

func TestPackageLevel(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.chrome_flt")
	writeFile(t, input, sampleBinary(t))

	require.NoError(t, Decode(input, filepath.Join(dir, "run.csv")))
	require.NoError(t, Encode(filepath.Join(dir, "run.csv"), filepath.Join(dir, "run.out")))

	data, err := os.ReadFile(filepath.Join(dir, "run.out"))
	require.NoError(t, err)
	assert.Equal(t, sampleBinary(t), data)

	err = Decode(input, filepath.Join(dir, "run.csv"))
	assert.ErrorIs(t, err, storage.ErrOutputExists)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&codec.RecordError{Kind: codec.ErrTruncatedRecord}, KindTruncatedRecord},
		{fmt.Errorf("wrapped: %w", &codec.CellError{Kind: codec.ErrFieldType}), KindFieldType},
		{codec.ErrFieldTooLong, KindFieldTooLong},
		{codec.ErrSeriesCountMismatch, KindSeriesCountMismatch},
		{codec.ErrPayloadLengthMismatch, KindPayloadLengthMismatch},
		{&storage.IOError{Op: "read", Path: "x", Err: os.ErrPermission}, KindIO},
		{errors.New("other"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}
