package document

// Summary describes a document without its samples
type Summary struct {
	InstrumentName string          `json:"instrument_name" yaml:"instrument_name"`
	MethodName     string          `json:"method_name" yaml:"method_name"`
	Param          int32           `json:"param" yaml:"param"`
	SeriesCount    int32           `json:"series_count" yaml:"series_count"`
	Samples        int             `json:"samples" yaml:"samples"`
	Bytes          int             `json:"bytes" yaml:"bytes"`
	Series         []SeriesSummary `json:"series" yaml:"series"`
}

// SeriesSummary describes one series header
type SeriesSummary struct {
	Name         string   `json:"name" yaml:"name"`
	Fields       [5]int32 `json:"fields" yaml:"fields"` // f0..f4
	ByteLength   int32    `json:"byte_length" yaml:"byte_length"`
	ElementCount int      `json:"element_count" yaml:"element_count"`
}

// Summarize returns the header-level view of d
func (d *Document) Summarize() Summary {
	s := Summary{
		InstrumentName: d.Header.InstrumentName,
		MethodName:     d.Header.MethodName,
		Param:          d.Header.Param,
		SeriesCount:    d.Header.SeriesCount,
		Samples:        d.SampleCount(),
		Bytes:          d.BinarySize(),
		Series:         make([]SeriesSummary, len(d.Series)),
	}
	for i, h := range d.Series {
		s.Series[i] = SeriesSummary{
			Name:         h.Name,
			Fields:       [5]int32{h.F0, h.F1, h.F2, h.F3, h.F4},
			ByteLength:   h.ByteLength(),
			ElementCount: len(d.Payloads[i]),
		}
	}
	return s
}
