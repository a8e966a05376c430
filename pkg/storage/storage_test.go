package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"keyword-seasonality/pkg/ranking"
	"keyword-seasonality/pkg/seasonality"
	"keyword-seasonality/pkg/timeseries"
)

type sample struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func exerciseStorage(t *testing.T, s Storage) {
	ctx := context.Background()

	exists, err := s.Exists(ctx, "item")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if exists {
		t.Error("Expected key to be absent initially")
	}

	var missing sample
	if err := s.Load(ctx, "item", &missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}

	if err := s.Save(ctx, "item", sample{Name: "ski", Score: 45}); err != nil {
		t.Fatalf("Expected no error saving, got: %v", err)
	}

	var loaded sample
	if err := s.Load(ctx, "item", &loaded); err != nil {
		t.Fatalf("Expected no error loading, got: %v", err)
	}
	if loaded.Name != "ski" || loaded.Score != 45 {
		t.Errorf("Unexpected loaded value: %+v", loaded)
	}

	if exists, _ := s.Exists(ctx, "item"); !exists {
		t.Error("Expected key to exist after save")
	}

	if err := s.Delete(ctx, "item"); err != nil {
		t.Fatalf("Expected no error deleting, got: %v", err)
	}
	if exists, _ := s.Exists(ctx, "item"); exists {
		t.Error("Expected key to be gone after delete")
	}
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	fs, err := NewFileStorage(StorageConfig{DataDir: dir})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	exerciseStorage(t, fs)

	if err := fs.Save(context.Background(), "kept", sample{Name: "socks"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "kept.json")); err != nil {
		t.Errorf("Expected kept.json on disk, got: %v", err)
	}
}

func TestFileStorage_RejectsUnsafeKeys(t *testing.T) {
	fs, err := NewFileStorage(StorageConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for _, key := range []string{"", "../escape", "a/b", `a\b`} {
		if err := fs.Save(context.Background(), key, 1); err == nil {
			t.Errorf("Expected error for key %q", key)
		}
	}

	if _, err := NewFileStorage(StorageConfig{}); err == nil {
		t.Error("Expected error for empty data dir")
	}
}

func TestReportExporter_Export(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	exporter := NewReportExporter(store, 1)

	report := ranking.NewReport([]seasonality.Score{
		{Keyword: "socks", AverageSeasonality: 0},
		{Keyword: "ski", AverageSeasonality: 45},
	}, []ranking.SkippedKeyword{
		{Keyword: "bad", Kind: timeseries.KindMalformedInput, Reason: "token x"},
	}, seasonality.WeeksPerYear)

	if err := exporter.Export(ctx, report); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	keys := store.Keys()
	if len(keys) != 3 {
		t.Fatalf("Expected 3 stored keys, got %v", keys)
	}

	var ranked []seasonality.Score
	if err := store.Load(ctx, KeyRanking, &ranked); err != nil {
		t.Fatalf("Expected ranking to load, got: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Keyword != "ski" {
		t.Errorf("Unexpected ranking: %+v", ranked)
	}

	summary, err := exporter.LoadSummary(ctx)
	if err != nil {
		t.Fatalf("Expected summary to load, got: %v", err)
	}
	if summary.RunID != report.RunID || summary.Total != 3 || summary.Ranked != 2 || summary.Skipped != 1 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if len(summary.MostSeasonal) != 1 || summary.MostSeasonal[0] != "ski" {
		t.Errorf("Expected most seasonal [ski], got %v", summary.MostSeasonal)
	}
}
