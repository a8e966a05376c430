package service

import (
	"context"

	"keyword-seasonality/pkg/ranking"
	"keyword-seasonality/pkg/seasonality"
	"keyword-seasonality/pkg/source"
	"keyword-seasonality/pkg/timeseries"
)

// RankingService turns keyword records into a seasonality ranking
type RankingService interface {
	Rank(ctx context.Context, records []timeseries.KeywordRecord) (*ranking.Report, error)
	RankFromSource(ctx context.Context, src source.Source) (*ranking.Report, error)
	ScoreRecord(record timeseries.KeywordRecord) (seasonality.Score, error)
	WithYearLength(yearLength int) (RankingService, error)
}
