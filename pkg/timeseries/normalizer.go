package timeseries

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var errNotFinite = errors.New("value is not finite")

// Normalize converts a raw record into an ordered numeric series.
// Single quotes are stripped, the string is split on commas and every token
// must parse as a finite number; otherwise the record is rejected.
func Normalize(record KeywordRecord) (NormalizedKeyword, error) {
	raw := strings.ReplaceAll(record.RawTimeSeries, "'", "")
	if strings.TrimSpace(raw) == "" {
		return NormalizedKeyword{}, &EmptySeriesError{Keyword: record.Keyword}
	}

	tokens := strings.Split(raw, ",")
	values := make([]float64, 0, len(tokens))

	for i, token := range tokens {
		value, err := parseToken(token)
		if err != nil {
			return NormalizedKeyword{}, &MalformedInputError{
				Keyword: record.Keyword,
				Token:   token,
				Index:   i,
				Err:     err,
			}
		}
		values = append(values, value)
	}

	return NormalizedKeyword{
		Keyword:    record.Keyword,
		TimeSeries: values,
	}, nil
}

// NormalizeAll normalizes every record. Failed records are left out of the
// result and their errors returned in input order.
func NormalizeAll(records []KeywordRecord) ([]NormalizedKeyword, []error) {
	normalized := make([]NormalizedKeyword, 0, len(records))
	var errs []error

	for _, record := range records {
		n, err := Normalize(record)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		normalized = append(normalized, n)
	}

	return normalized, errs
}

func parseToken(token string) (float64, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return 0, errors.New("empty value")
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, err
	}

	// ParseFloat accepts "NaN" and "Inf"
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errNotFinite
	}

	return value, nil
}
