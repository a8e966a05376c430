package seasonality

import "math"

// peak holds the two largest values seen in a left-to-right scan
type peak struct {
	max    float64
	second float64
}

var noPeak = peak{max: math.Inf(-1), second: math.Inf(-1)}

func (p peak) observe(v float64) peak {
	switch {
	case v > p.max:
		return peak{max: v, second: p.max}
	case v > p.second:
		return peak{max: p.max, second: v}
	default:
		return p
	}
}

func scanPeak(segment []float64) peak {
	p := noPeak
	for _, v := range segment {
		p = p.observe(v)
	}
	return p
}

// Prominence returns the gap between the largest and second-largest values
// of segment. Segments with fewer than two values have no discernible peak
// and score 0.
func Prominence(segment []float64) float64 {
	p := scanPeak(segment)
	if math.IsInf(p.second, -1) {
		return 0
	}
	return p.max - p.second
}

// Prominences scores every segment in order
func Prominences(segments [][]float64) []float64 {
	scores := make([]float64, len(segments))
	for i, segment := range segments {
		scores[i] = Prominence(segment)
	}
	return scores
}

// Average returns the arithmetic mean of scores
func Average(scores []float64) (float64, error) {
	if len(scores) == 0 {
		return 0, ErrNoSegments
	}

	var total float64
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores)), nil
}
