package timeseries

import (
	"errors"
	"fmt"
)

// ErrorKind names a class of pipeline error for reports and API responses
type ErrorKind string

const (
	KindMalformedInput ErrorKind = "malformed_input"
	KindEmptySeries    ErrorKind = "empty_series"
	KindSourceRead     ErrorKind = "source_read"
	KindUnknown        ErrorKind = "unknown"
)

// MalformedInputError reports a time-series token that is not a finite number.
// The whole keyword is rejected.
type MalformedInputError struct {
	Keyword string
	Token   string
	Index   int
	Err     error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed time series for keyword %q: token %d (%q): %v", e.Keyword, e.Index, e.Token, e.Err)
	}
	return fmt.Sprintf("malformed time series for keyword %q: token %d (%q)", e.Keyword, e.Index, e.Token)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// EmptySeriesError reports a keyword whose time series has no samples
type EmptySeriesError struct {
	Keyword string
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("empty time series for keyword %q", e.Keyword)
}

// SourceReadError reports a failure of the underlying data source.
// It aborts the whole batch.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("failed to read source %s: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// KindOf maps an error to its ErrorKind
func KindOf(err error) ErrorKind {
	var malformed *MalformedInputError
	var empty *EmptySeriesError
	var source *SourceReadError

	switch {
	case errors.As(err, &malformed):
		return KindMalformedInput
	case errors.As(err, &empty):
		return KindEmptySeries
	case errors.As(err, &source):
		return KindSourceRead
	default:
		return KindUnknown
	}
}
