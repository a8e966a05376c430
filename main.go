package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"keyword-seasonality/internal/config"
	"keyword-seasonality/internal/service"
	"keyword-seasonality/pkg/logger"
	"keyword-seasonality/pkg/ranking"
	"keyword-seasonality/pkg/seasonality"
	"keyword-seasonality/pkg/source"
	"keyword-seasonality/pkg/storage"
	"keyword-seasonality/pkg/worker"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: unexpected panic: %v\n", r)
			os.Exit(1)
		}
	}()

	// .env is optional; real environment variables win
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", getEnvOrDefault("SEASONALITY_CONFIG", ""), "YAML configuration file (env: SEASONALITY_CONFIG)")
		input      = flag.String("input", "", "CSV file with keyword and time_series columns (env: SEASONALITY_SOURCE_PATH)")
		sourceURL  = flag.String("source-url", "", "Download records from this URL instead of a file (env: SEASONALITY_SOURCE_HTTP_URL)")
		encoding   = flag.String("encoding", "", "Input character encoding (env: SEASONALITY_SOURCE_ENCODING)")
		format     = flag.String("format", "", "Output format: text, json or csv (env: SEASONALITY_OUTPUT_FORMAT)")
		top        = flag.Int("top", 0, "Only print the N most seasonal keywords (env: SEASONALITY_OUTPUT_TOP)")
		yearLength = flag.Int("year-length", 0, "Samples per yearly segment (env: SEASONALITY_SCORING_YEAR_LENGTH)")
		workers    = flag.Int("workers", 0, "Concurrent scoring workers (env: SEASONALITY_WORKER_MAX_WORKERS)")
		outputDir  = flag.String("output-dir", "", "Also export the report as JSON files here (env: SEASONALITY_STORAGE_DATA_DIR)")
		timeout    = flag.Duration("timeout", 10*time.Minute, "Overall run timeout")
		debug      = flag.Bool("debug", false, "Enable debug logging (env: DEBUG)")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	cfg, err := config.NewManager().Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags override file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Source.Path = *input
		case "source-url":
			cfg.Source.HTTP.URL = *sourceURL
		case "encoding":
			cfg.Source.Options.Encoding = *encoding
		case "format":
			cfg.Output.Format = *format
		case "top":
			cfg.Output.Top = *top
		case "year-length":
			cfg.Scoring.YearLength = *yearLength
		case "workers":
			cfg.Worker.MaxWorkers = *workers
		case "output-dir":
			cfg.Storage.DataDir = *outputDir
		}
	})
	if *debug || os.Getenv("DEBUG") == "true" {
		cfg.Logger.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: invalid configuration: %v\n\n", err)
		printUsage()
		os.Exit(1)
	}

	logger.SetLogger(logger.New(cfg.Logger))
	log := logger.GetLogger().Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("Ranking failed")
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	format, err := ranking.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	scorer, err := seasonality.NewScorer(cfg.Scoring.YearLength)
	if err != nil {
		return err
	}
	svc := service.NewRankingService(scorer, worker.NewPool(cfg.Worker))

	var src source.Source
	if cfg.Source.HTTP.URL != "" {
		src = source.NewHTTPSource(cfg.Source.HTTP, cfg.Source.Options)
	} else {
		src = source.NewCSVSource(cfg.Source.Path, cfg.Source.Options)
	}

	log.WithFields(map[string]interface{}{
		"source":      src.Name(),
		"year_length": scorer.YearLength(),
		"workers":     cfg.Worker.MaxWorkers,
		"format":      format,
	}).Info("Starting seasonality ranking")

	report, err := svc.RankFromSource(ctx, src)
	if err != nil {
		return err
	}

	if err := ranking.Render(os.Stdout, report.Top(cfg.Output.Top), format); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if report.SkippedCount() > 0 {
		log.WithField("skipped", report.SkippedCount()).Warn("Some keywords were excluded from the ranking")
	}

	if cfg.Storage.DataDir == "" {
		return nil
	}

	store, err := storage.NewFileStorage(cfg.Storage)
	if err != nil {
		return err
	}
	if err := storage.NewReportExporter(store, cfg.Output.Top).Export(ctx, report); err != nil {
		return err
	}
	log.WithField("data_dir", cfg.Storage.DataDir).Info("Report exported")
	return nil
}

func printUsage() {
	fmt.Println("Keyword Seasonality Ranker")
	fmt.Println("")
	fmt.Println("Ranks keywords from most to least seasonal using the average yearly")
	fmt.Println("prominence of the highest weekly search-volume peak.")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  keyword-seasonality [options]")
	fmt.Println("")
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  keyword-seasonality -input dataset.csv")
	fmt.Println("  keyword-seasonality -input dataset.csv -format json -top 20")
	fmt.Println("  keyword-seasonality -source-url https://example.com/keywords.csv -output-dir reports")
	fmt.Println("")
	fmt.Println("Every option can also be set in a YAML file (-config) or through")
	fmt.Println("SEASONALITY_* environment variables, e.g. SEASONALITY_SCORING_YEAR_LENGTH=52.")
}
