package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"keyword-seasonality/pkg/logger"
	"keyword-seasonality/pkg/timeseries"
)

// CSVSource reads keyword records from a delimited file with a header row
type CSVSource struct {
	path    string
	options Options
	log     *logger.Logger
}

// NewCSVSource creates a source for the file at path
func NewCSVSource(path string, options Options) *CSVSource {
	return &CSVSource{
		path:    path,
		options: options.withDefaults(),
		log:     logger.GetLogger().Component("csv_source"),
	}
}

func (s *CSVSource) Name() string {
	return s.path
}

// Load reads the whole file. Any I/O, decoding or layout failure is a
// SourceReadError.
func (s *CSVSource) Load(ctx context.Context) ([]timeseries.KeywordRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &timeseries.SourceReadError{Source: s.path, Err: err}
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, &timeseries.SourceReadError{Source: s.path, Err: err}
	}
	defer file.Close()

	records, err := ReadRecords(file, s.options)
	if err != nil {
		return nil, &timeseries.SourceReadError{Source: s.path, Err: err}
	}

	s.log.WithFields(map[string]interface{}{
		"path":    s.path,
		"records": len(records),
	}).Info("Keyword records loaded")

	return records, nil
}

// ReadRecords parses delimited keyword data from r
func ReadRecords(r io.Reader, options Options) ([]timeseries.KeywordRecord, error) {
	options = options.withDefaults()

	delimiter, size := utf8.DecodeRuneInString(options.Delimiter)
	if size != len(options.Delimiter) || delimiter == utf8.RuneError {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", options.Delimiter)
	}

	decoded, err := decodingReader(r, options.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	keywordIdx, seriesIdx := -1, -1
	for i, h := range header {
		name := strings.TrimSpace(h)
		switch {
		case strings.EqualFold(name, options.KeywordColumn):
			keywordIdx = i
		case strings.EqualFold(name, options.TimeSeriesColumn):
			seriesIdx = i
		}
	}
	if keywordIdx == -1 {
		return nil, fmt.Errorf("column %q not found in header", options.KeywordColumn)
	}
	if seriesIdx == -1 {
		return nil, fmt.Errorf("column %q not found in header", options.TimeSeriesColumn)
	}

	var records []timeseries.KeywordRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		records = append(records, timeseries.KeywordRecord{
			Keyword:       field(row, keywordIdx),
			RawTimeSeries: field(row, seriesIdx),
		})
	}

	return records, nil
}

// field returns the trimmed value at idx; short rows yield "" so the
// normalizer reports them as empty series
func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
