package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"keyword-seasonality/internal/config"
	"keyword-seasonality/internal/handler"
	"keyword-seasonality/internal/service"
	"keyword-seasonality/pkg/logger"
	"keyword-seasonality/pkg/seasonality"
	"keyword-seasonality/pkg/worker"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "", "Configuration file path (optional)")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if err := app.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (app *Application) Run() error {
	_ = godotenv.Load()

	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return err
	}

	if app.debug {
		cfg.Logger.Level = "debug"
	}
	logger.SetLogger(logger.New(cfg.Logger))
	appLog := logger.GetLogger().Component("server")

	scorer, err := seasonality.NewScorer(cfg.Scoring.YearLength)
	if err != nil {
		return err
	}
	svc := service.NewRankingService(scorer, worker.NewPool(cfg.Worker))
	server := handler.NewApp(handler.NewController(svc), cfg.Server)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		appLog.WithFields(map[string]interface{}{
			"addr":        addr,
			"year_length": scorer.YearLength(),
			"max_workers": cfg.Worker.MaxWorkers,
		}).Info("Server started")
		errChan <- server.Listen(addr)
	}()

	select {
	case <-sigChan:
		appLog.Info("Shutdown signal received")
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	if err := server.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	appLog.Info("Server stopped")
	return nil
}
