package source

import (
	"context"

	"keyword-seasonality/pkg/timeseries"
)

// Source yields the complete set of keyword records for one run
type Source interface {
	Load(ctx context.Context) ([]timeseries.KeywordRecord, error)
	Name() string
}

// Options controls how delimited keyword data is read
type Options struct {
	KeywordColumn    string `mapstructure:"keyword_column"`
	TimeSeriesColumn string `mapstructure:"time_series_column"`
	Delimiter        string `mapstructure:"delimiter"`
	Encoding         string `mapstructure:"encoding"`
}

// DefaultOptions matches the keyword,time_series layout in UTF-8
func DefaultOptions() Options {
	return Options{
		KeywordColumn:    "keyword",
		TimeSeriesColumn: "time_series",
		Delimiter:        ",",
		Encoding:         "utf-8",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.KeywordColumn == "" {
		o.KeywordColumn = d.KeywordColumn
	}
	if o.TimeSeriesColumn == "" {
		o.TimeSeriesColumn = d.TimeSeriesColumn
	}
	if o.Delimiter == "" {
		o.Delimiter = d.Delimiter
	}
	if o.Encoding == "" {
		o.Encoding = d.Encoding
	}
	return o
}

// MemorySource serves records that are already materialized
type MemorySource struct {
	Records []timeseries.KeywordRecord
}

// NewMemorySource wraps records as a Source
func NewMemorySource(records []timeseries.KeywordRecord) *MemorySource {
	return &MemorySource{Records: records}
}

func (m *MemorySource) Load(ctx context.Context) ([]timeseries.KeywordRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &timeseries.SourceReadError{Source: m.Name(), Err: err}
	}
	out := make([]timeseries.KeywordRecord, len(m.Records))
	copy(out, m.Records)
	return out, nil
}

func (m *MemorySource) Name() string {
	return "memory"
}
