package seasonality

// WeeksPerYear is the default segment length for weekly series
const WeeksPerYear = 52

// SplitYears partitions series into consecutive windows of yearLength
// samples starting at index 0. The final window holds the remainder when the
// length is not a multiple of yearLength. Windows share the backing array of
// series.
func SplitYears(series []float64, yearLength int) [][]float64 {
	if yearLength <= 0 || len(series) == 0 {
		return nil
	}

	segments := make([][]float64, 0, (len(series)+yearLength-1)/yearLength)
	for start := 0; start < len(series); start += yearLength {
		end := start + yearLength
		if end > len(series) {
			end = len(series)
		}
		segments = append(segments, series[start:end:end])
	}

	return segments
}
