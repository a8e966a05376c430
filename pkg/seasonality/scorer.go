package seasonality

import (
	"errors"
	"fmt"

	"keyword-seasonality/pkg/timeseries"
)

// ErrNoSegments is returned when averaging an empty list of segment scores
var ErrNoSegments = errors.New("no segments to average")

// Score is the seasonality of a single keyword
type Score struct {
	Keyword            string    `json:"keyword"`
	AverageSeasonality float64   `json:"average_seasonality"`
	YearlyScores       []float64 `json:"yearly_scores"`
	Weeks              int       `json:"weeks"`
}

// Scorer turns normalized series into seasonality scores
type Scorer struct {
	yearLength int
}

// NewScorer creates a scorer cutting series into yearLength windows.
// A zero yearLength selects WeeksPerYear.
func NewScorer(yearLength int) (*Scorer, error) {
	if yearLength < 0 {
		return nil, fmt.Errorf("year length must be positive, got %d", yearLength)
	}
	if yearLength == 0 {
		yearLength = WeeksPerYear
	}
	return &Scorer{yearLength: yearLength}, nil
}

// DefaultScorer returns a scorer using 52-week years
func DefaultScorer() *Scorer {
	return &Scorer{yearLength: WeeksPerYear}
}

// YearLength returns the segment length used by the scorer
func (s *Scorer) YearLength() int {
	return s.yearLength
}

// Score computes the average yearly peak prominence of keyword
func (s *Scorer) Score(keyword timeseries.NormalizedKeyword) (Score, error) {
	segments := SplitYears(keyword.TimeSeries, s.yearLength)
	if len(segments) == 0 {
		return Score{}, &timeseries.EmptySeriesError{Keyword: keyword.Keyword}
	}

	yearly := Prominences(segments)
	avg, err := Average(yearly)
	if err != nil {
		return Score{}, fmt.Errorf("keyword %q: %w", keyword.Keyword, err)
	}

	return Score{
		Keyword:            keyword.Keyword,
		AverageSeasonality: avg,
		YearlyScores:       yearly,
		Weeks:              keyword.Len(),
	}, nil
}
