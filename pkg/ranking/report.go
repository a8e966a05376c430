package ranking

import (
	"time"

	"github.com/google/uuid"

	"keyword-seasonality/pkg/seasonality"
	"keyword-seasonality/pkg/timeseries"
)

// SkippedKeyword records a keyword left out of the ranking
type SkippedKeyword struct {
	Keyword string               `json:"keyword"`
	Kind    timeseries.ErrorKind `json:"kind"`
	Reason  string               `json:"reason"`
}

// Report is the result of one ranking run
type Report struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	YearLength  int                 `json:"year_length"`
	Total       int                 `json:"total_keywords"`
	Results     []seasonality.Score `json:"results"`
	Skipped     []SkippedKeyword    `json:"skipped"`
}

// NewReport ranks scores and stamps the run
func NewReport(scores []seasonality.Score, skipped []SkippedKeyword, yearLength int) *Report {
	if skipped == nil {
		skipped = []SkippedKeyword{}
	}

	return &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		YearLength:  yearLength,
		Total:       len(scores) + len(skipped),
		Results:     Rank(scores),
		Skipped:     skipped,
	}
}

// Top returns a copy of the report keeping only the n most seasonal
// keywords. n <= 0 keeps all of them.
func (r *Report) Top(n int) *Report {
	out := *r
	if n > 0 && n < len(r.Results) {
		out.Results = r.Results[:n:n]
	}
	return &out
}

// SkippedCount returns how many keywords were excluded
func (r *Report) SkippedCount() int {
	return len(r.Skipped)
}
