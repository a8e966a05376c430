package service

import (
	"keyword-seasonality/pkg/timeseries"
)

// ErrorSeverity decides whether an error skips a keyword or aborts the run
type ErrorSeverity int

const (
	SeverityKeyword ErrorSeverity = iota // exclude the keyword, keep going
	SeverityFatal                        // abort the whole batch
)

// ClassifyError maps pipeline errors to a severity
func ClassifyError(err error) ErrorSeverity {
	switch timeseries.KindOf(err) {
	case timeseries.KindMalformedInput, timeseries.KindEmptySeries:
		return SeverityKeyword
	default:
		return SeverityFatal
	}
}
