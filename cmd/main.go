// hhboard-collector-service
//
// Ingests employer and vacancy listings from the hh.ru public API into
// PostgreSQL and serves a handful of analytics over them.
//
// Default mode runs one ingestion pass and drops into the interactive menu.
// Flags:
//
//	-serve       run as a service: /health endpoint + cron-scheduled ingestion
//	-recreate    drop and recreate the database before ingesting (destructive)
//	-skip-ingest open the menu over existing data without fetching
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hhboard/collector-service/internal/config"
	"hhboard/collector-service/internal/db"
	"hhboard/collector-service/internal/hh"
	"hhboard/collector-service/internal/ingest"
	"hhboard/collector-service/internal/scheduler"
	"hhboard/collector-service/internal/store"
	"hhboard/collector-service/internal/ui"
)

const version = "1.0.0"

func main() {
	serve := flag.Bool("serve", false, "run as a service with scheduled ingestion")
	recreate := flag.Bool("recreate", false, "drop and recreate the database before ingesting")
	skipIngest := flag.Bool("skip-ingest", false, "open the menu over existing data without fetching")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[collector-service] Config error: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("[collector-service] Logger error: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *recreate {
		logger.Warnw("recreating database — all stored data will be lost")
		if err := store.RecreateDatabase(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatalw("recreate database failed", "err", err)
		}
	}

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("postgres connection failed", "err", err)
	}
	defer pool.Close()

	if err := store.EnsureSchema(ctx, pool); err != nil {
		logger.Fatalw("schema creation failed", "err", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warnw("redis unavailable — run events disabled", "err", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	client := hh.NewClient(cfg.HHBaseURL, cfg.HTTPTimeout, cfg.PerPage, logger)
	collector := ingest.NewCollector(client, logger)
	writer := store.NewWriter(pool, cfg.MaxDescriptionLen, logger)
	publisher := ingest.NewPublisher(rdb, logger)
	runner := ingest.NewRunner(collector, writer, publisher, cfg.EmployerIDs, logger)

	if *serve {
		runServe(ctx, cfg, runner, logger)
		return
	}

	if !*skipIngest {
		summary, err := runner.Run(ctx)
		if err != nil {
			logger.Fatalw("ingestion failed", "err", err)
		}
		fmt.Printf("Saved %d companies; %d of %d vacancies inserted (%d duplicates, %d skipped)\n",
			summary.EmployersSaved, summary.VacanciesInserted, summary.VacanciesAttempted,
			summary.VacancyDuplicates, summary.VacanciesSkipped)
	}

	menu := ui.NewMenu(store.NewQueries(pool), os.Stdin, os.Stdout, cfg.DefaultKeyword)
	if err := menu.Run(ctx); err != nil {
		logger.Fatalw("menu aborted", "err", err)
	}
}

// runServe keeps the process alive with a health endpoint and cron-scheduled
// ingestion until SIGINT/SIGTERM.
func runServe(ctx context.Context, cfg *config.Config, runner *ingest.Runner, logger *zap.SugaredLogger) {
	sched := scheduler.New(runner, cfg.IngestIntervalHours, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Fatalw("scheduler start failed", "err", err)
	}
	defer sched.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("serving", "version", version, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("http server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown error", "err", err)
	}
	logger.Info("stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "collector-service",
		"version": version,
	})
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}
