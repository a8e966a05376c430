package ranking

import (
	"sort"

	"keyword-seasonality/pkg/seasonality"
)

// Rank orders scores from most to least seasonal. Ties keep their input
// order. The input slice is not modified.
func Rank(scores []seasonality.Score) []seasonality.Score {
	ranked := make([]seasonality.Score, len(scores))
	copy(ranked, scores)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageSeasonality > ranked[j].AverageSeasonality
	})

	return ranked
}
