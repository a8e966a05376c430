package service

import (
	"context"
	"fmt"
	"time"

	"keyword-seasonality/pkg/logger"
	"keyword-seasonality/pkg/ranking"
	"keyword-seasonality/pkg/seasonality"
	"keyword-seasonality/pkg/source"
	"keyword-seasonality/pkg/timeseries"
	"keyword-seasonality/pkg/worker"
)

type rankingService struct {
	scorer *seasonality.Scorer
	pool   *worker.Pool
	log    *logger.Logger
}

// NewRankingService scores keywords with scorer, fanning out over pool
func NewRankingService(scorer *seasonality.Scorer, pool *worker.Pool) RankingService {
	if scorer == nil {
		scorer = seasonality.DefaultScorer()
	}
	if pool == nil {
		pool = worker.NewPool(worker.DefaultPoolConfig())
	}

	return &rankingService{
		scorer: scorer,
		pool:   pool,
		log:    logger.GetLogger().Component("ranking_service"),
	}
}

// WithYearLength returns a service sharing the worker pool but cutting
// series into yearLength windows
func (s *rankingService) WithYearLength(yearLength int) (RankingService, error) {
	if yearLength == 0 || yearLength == s.scorer.YearLength() {
		return s, nil
	}

	scorer, err := seasonality.NewScorer(yearLength)
	if err != nil {
		return nil, err
	}
	return &rankingService{scorer: scorer, pool: s.pool, log: s.log}, nil
}

// ScoreRecord normalizes and scores a single record
func (s *rankingService) ScoreRecord(record timeseries.KeywordRecord) (seasonality.Score, error) {
	normalized, err := timeseries.Normalize(record)
	if err != nil {
		return seasonality.Score{}, err
	}
	return s.scorer.Score(normalized)
}

// RankFromSource loads every record from src before scoring. A source
// failure aborts the run without a report.
func (s *rankingService) RankFromSource(ctx context.Context, src source.Source) (*ranking.Report, error) {
	start := time.Now()

	records, err := src.Load(ctx)
	if err != nil {
		s.log.WithError(err).WithField("source", src.Name()).Error("Failed to load keyword records")
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"source":      src.Name(),
		"records":     len(records),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Source loaded")

	return s.Rank(ctx, records)
}

// Rank scores every record and orders the results. Keywords with malformed
// or empty series are listed as skipped; any other failure aborts the run.
func (s *rankingService) Rank(ctx context.Context, records []timeseries.KeywordRecord) (*ranking.Report, error) {
	start := time.Now()
	scores := make([]seasonality.Score, len(records))

	errs, err := s.pool.Run(ctx, len(records), func(ctx context.Context, i int) error {
		score, err := s.ScoreRecord(records[i])
		if err != nil {
			return err
		}
		scores[i] = score
		return nil
	})
	if err != nil {
		return nil, err
	}

	ranked := make([]seasonality.Score, 0, len(records))
	var skipped []ranking.SkippedKeyword

	for i, taskErr := range errs {
		if taskErr == nil {
			ranked = append(ranked, scores[i])
			continue
		}

		if ClassifyError(taskErr) == SeverityFatal {
			return nil, fmt.Errorf("failed to score keyword %q: %w", records[i].Keyword, taskErr)
		}

		skipped = append(skipped, ranking.SkippedKeyword{
			Keyword: records[i].Keyword,
			Kind:    timeseries.KindOf(taskErr),
			Reason:  taskErr.Error(),
		})
		s.log.WithError(taskErr).WithField("keyword", records[i].Keyword).Warn("Keyword skipped")
	}

	report := ranking.NewReport(ranked, skipped, s.scorer.YearLength())

	fields := map[string]interface{}{
		"run_id":      report.RunID,
		"ranked":      len(report.Results),
		"skipped":     report.SkippedCount(),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if metrics := s.pool.Metrics(); metrics != nil {
		fields["tasks_failed"] = metrics.TasksFailed
		fields["max_task_duration"] = metrics.MaxDuration.String()
	}
	s.log.WithFields(fields).Info("Keywords ranked")

	return report, nil
}
