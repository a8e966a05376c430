// Package seasonality scores how sharply peaked a weekly search-volume
// series is.
//
// A series is cut into yearly segments of WeeksPerYear samples (the last
// segment keeps the remainder). Each segment is scored by the prominence of
// its highest peak, the gap between its largest and second-largest values,
// and the keyword's seasonality is the mean prominence over all segments.
package seasonality
