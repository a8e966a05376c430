package storage

import (
	"context"
	"fmt"
	"time"

	"keyword-seasonality/pkg/logger"
	"keyword-seasonality/pkg/ranking"
)

// Keys written by ReportExporter
const (
	KeyRanking = "ranking"
	KeySkipped = "skipped_keywords"
	KeySummary = "summary"
)

// RunSummary is the compact overview of a ranking run
type RunSummary struct {
	RunID        string    `json:"run_id"`
	GeneratedAt  time.Time `json:"generated_at"`
	ExportedAt   time.Time `json:"exported_at"`
	YearLength   int       `json:"year_length"`
	Total        int       `json:"total_keywords"`
	Ranked       int       `json:"ranked"`
	Skipped      int       `json:"skipped"`
	MostSeasonal []string  `json:"most_seasonal"`
}

// ReportExporter writes ranking reports to a Storage
type ReportExporter struct {
	storage Storage
	topN    int
	log     *logger.Logger
}

// NewReportExporter creates an exporter listing topN keywords in the summary
func NewReportExporter(storage Storage, topN int) *ReportExporter {
	if topN <= 0 {
		topN = 10
	}
	return &ReportExporter{
		storage: storage,
		topN:    topN,
		log:     logger.GetLogger().Component("report_exporter"),
	}
}

// Export saves the ranked results, the skipped keywords and a summary
func (re *ReportExporter) Export(ctx context.Context, report *ranking.Report) error {
	if err := re.storage.Save(ctx, KeyRanking, report.Results); err != nil {
		return fmt.Errorf("failed to export ranking: %w", err)
	}

	if err := re.storage.Save(ctx, KeySkipped, report.Skipped); err != nil {
		return fmt.Errorf("failed to export skipped keywords: %w", err)
	}

	summary := re.buildSummary(report)
	if err := re.storage.Save(ctx, KeySummary, summary); err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}

	re.log.WithFields(map[string]interface{}{
		"run_id":  report.RunID,
		"ranked":  summary.Ranked,
		"skipped": summary.Skipped,
	}).Info("Report exported")
	return nil
}

// LoadSummary reads back the last exported summary
func (re *ReportExporter) LoadSummary(ctx context.Context) (*RunSummary, error) {
	var summary RunSummary
	if err := re.storage.Load(ctx, KeySummary, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (re *ReportExporter) buildSummary(report *ranking.Report) RunSummary {
	top := report.Top(re.topN).Results
	names := make([]string, len(top))
	for i, s := range top {
		names[i] = s.Keyword
	}

	return RunSummary{
		RunID:        report.RunID,
		GeneratedAt:  report.GeneratedAt,
		ExportedAt:   time.Now().UTC(),
		YearLength:   report.YearLength,
		Total:        report.Total,
		Ranked:       len(report.Results),
		Skipped:      len(report.Skipped),
		MostSeasonal: names,
	}
}
