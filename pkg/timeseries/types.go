package timeseries

// KeywordRecord is a keyword row as read from a data source.
// RawTimeSeries holds comma-separated values, optionally single-quoted.
type KeywordRecord struct {
	Keyword       string `json:"keyword"`
	RawTimeSeries string `json:"time_series"`
}

// NormalizedKeyword is a keyword with its parsed weekly search volumes
type NormalizedKeyword struct {
	Keyword    string    `json:"keyword"`
	TimeSeries []float64 `json:"time_series"`
}

// Len returns the number of weekly samples
func (n NormalizedKeyword) Len() int {
	return len(n.TimeSeries)
}
