package ranking

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format selects how a report is rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", name)
	}
}

// Render writes the report to w in the given format
func Render(w io.Writer, report *Report, format Format) error {
	switch format {
	case FormatText, "":
		return renderText(w, report)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case FormatCSV:
		return renderCSV(w, report)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func renderText(w io.Writer, report *Report) error {
	if _, err := fmt.Fprintln(w, "Keywords ordered by most to least seasonal:"); err != nil {
		return err
	}

	for _, score := range report.Results {
		if _, err := fmt.Fprintf(w, "Keyword: %s, Avg Seasonality Score: %s\n",
			score.Keyword, formatScore(score.AverageSeasonality)); err != nil {
			return err
		}
	}

	if len(report.Skipped) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\nSkipped %d keyword(s):\n", len(report.Skipped)); err != nil {
		return err
	}
	for _, s := range report.Skipped {
		if _, err := fmt.Fprintf(w, "  %s (%s): %s\n", s.Keyword, s.Kind, s.Reason); err != nil {
			return err
		}
	}
	return nil
}

func renderCSV(w io.Writer, report *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"rank", "keyword", "average_seasonality", "years"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, score := range report.Results {
		row := []string{
			strconv.Itoa(i + 1),
			score.Keyword,
			formatScore(score.AverageSeasonality),
			strconv.Itoa(len(score.YearlyScores)),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for '%s': %w", score.Keyword, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
