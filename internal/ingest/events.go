package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hhboard/collector-service/internal/model"
)

// EventChannel is the Redis pub/sub channel run summaries are announced on.
const EventChannel = "collector.ingest"

// Publisher announces completed ingestion runs on a Redis channel so other
// services can react without polling the database. A nil Publisher, or one
// built without a Redis client, publishes nothing — events are strictly
// best-effort and never fail a run.
type Publisher struct {
	rdb    *redis.Client
	logger *zap.SugaredLogger
}

func NewPublisher(rdb *redis.Client, logger *zap.SugaredLogger) *Publisher {
	if rdb == nil {
		return nil
	}
	return &Publisher{rdb: rdb, logger: logger}
}

// PublishRunSummary emits one JSON event describing a finished run.
func (p *Publisher) PublishRunSummary(ctx context.Context, runID string, s *model.PersistSummary, elapsed time.Duration) {
	if p == nil {
		return
	}

	payload, _ := json.Marshal(map[string]any{
		"runId":              runID,
		"employers":          s.EmployersSaved,
		"vacanciesAttempted": s.VacanciesAttempted,
		"vacanciesInserted":  s.VacanciesInserted,
		"elapsedMs":          elapsed.Milliseconds(),
	})

	if err := p.rdb.Publish(ctx, EventChannel, payload).Err(); err != nil {
		p.logger.Warnw("publish run summary failed", "err", err)
	}
}
