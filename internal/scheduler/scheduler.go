// Package scheduler wires up the cron job that periodically re-ingests the
// configured employers in serve mode.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"hhboard/collector-service/internal/ingest"
)

// Scheduler wraps robfig/cron and manages the periodic ingestion loop.
type Scheduler struct {
	cron   *cron.Cron
	runner *ingest.Runner
	spec   string // cron spec, e.g. "@every 6h"
	logger *zap.SugaredLogger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(runner *ingest.Runner, intervalHours int, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
		logger: logger,
	}
}

// Start registers the job and starts the scheduler. Also runs one ingestion
// immediately so the store is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Infow("cron started", "spec", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runOnce(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("cron stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if _, err := s.runner.Run(ctx); err != nil {
		s.logger.Errorw("scheduled ingestion failed", "err", err)
	}
}
