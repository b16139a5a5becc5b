// Package ingest drives the fetch → normalise → persist pipeline.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hhboard/collector-service/internal/hh"
	"hhboard/collector-service/internal/model"
)

// Collector gathers employer and vacancy batches from the hh.ru API.
// Collection is sequential and best-effort: a failed employer is logged and
// skipped, a broken pagination keeps whatever pages already arrived. Only a
// fully empty employer batch halts the run (see Runner).
type Collector struct {
	client *hh.Client
	logger *zap.SugaredLogger
}

func NewCollector(client *hh.Client, logger *zap.SugaredLogger) *Collector {
	return &Collector{client: client, logger: logger}
}

// CollectEmployers fetches one record per id, preserving input order.
func (c *Collector) CollectEmployers(ctx context.Context, ids []string) []model.Employer {
	employers := make([]model.Employer, 0, len(ids))
	for _, id := range ids {
		rec, err := c.client.FetchEmployer(ctx, id)
		if err != nil {
			c.logger.Warnw("employer fetch failed — skipping", "employerId", id, "err", err)
			continue
		}
		employers = append(employers, mapEmployer(rec))
	}
	return employers
}

// CollectVacancies fetches every vacancy of every employer, concatenated in
// employer-then-page order. No dedup happens here; the url uniqueness
// constraint handles that at persistence time.
func (c *Collector) CollectVacancies(ctx context.Context, employers []model.Employer) []model.Vacancy {
	var all []model.Vacancy
	for _, e := range employers {
		records, err := c.client.FetchAllVacancies(ctx, e.RemoteID)
		if err != nil {
			c.logger.Warnw("vacancy pagination aborted — keeping partial results",
				"employerId", e.RemoteID, "err", err)
		}
		for _, rec := range records {
			all = append(all, mapVacancy(rec))
		}
		c.logger.Infow("vacancies collected", "employer", e.Name, "count", len(records))
	}
	return all
}

func mapEmployer(rec *hh.EmployerRecord) model.Employer {
	return model.Employer{
		RemoteID:     rec.ID,
		Name:         rec.Name,
		Description:  rec.Description,
		Website:      rec.SiteURL,
		VacanciesURL: rec.VacanciesURL,
	}
}

func mapVacancy(rec hh.VacancyRecord) model.Vacancy {
	v := model.Vacancy{
		EmployerRemoteID: rec.Employer.ID,
		Title:            rec.Name,
		URL:              rec.AlternateURL,
		Requirement:      rec.Snippet.Requirement,
		Responsibility:   rec.Snippet.Responsibility,
	}
	if rec.Salary != nil {
		v.SalaryFrom = rec.Salary.From
		v.SalaryTo = rec.Salary.To
		v.Currency = rec.Salary.Currency
	}
	return v
}

// persister is satisfied by *store.Writer.
type persister interface {
	Persist(ctx context.Context, employers []model.Employer, vacancies []model.Vacancy) (*model.PersistSummary, error)
}

// Runner executes one complete ingestion run: collect employers, collect
// their vacancies, persist, announce. Each run carries a generated run id in
// its log fields and its published event.
type Runner struct {
	collector   *Collector
	writer      persister
	publisher   *Publisher
	employerIDs []string
	logger      *zap.SugaredLogger
}

func NewRunner(collector *Collector, writer persister, publisher *Publisher, employerIDs []string, logger *zap.SugaredLogger) *Runner {
	return &Runner{
		collector:   collector,
		writer:      writer,
		publisher:   publisher,
		employerIDs: employerIDs,
		logger:      logger,
	}
}

// Run performs one ingestion pass. If not a single employer could be fetched
// the run aborts before any store access.
func (r *Runner) Run(ctx context.Context) (*model.PersistSummary, error) {
	runID := uuid.NewString()
	start := time.Now()
	log := r.logger.With("runId", runID)

	log.Infow("ingestion run started", "employerIds", len(r.employerIDs))

	employers := r.collector.CollectEmployers(ctx, r.employerIDs)
	if len(employers) == 0 {
		return nil, fmt.Errorf("no employer data could be fetched for any of %d ids", len(r.employerIDs))
	}
	log.Infow("employers collected", "count", len(employers))

	vacancies := r.collector.CollectVacancies(ctx, employers)
	log.Infow("vacancy collection finished", "count", len(vacancies))

	summary, err := r.writer.Persist(ctx, employers, vacancies)
	if err != nil {
		return nil, fmt.Errorf("persist batch: %w", err)
	}

	elapsed := time.Since(start)
	log.Infow("ingestion run complete",
		"employers", summary.EmployersSaved,
		"vacanciesAttempted", summary.VacanciesAttempted,
		"vacanciesInserted", summary.VacanciesInserted,
		"duplicates", summary.VacancyDuplicates,
		"referentialGaps", summary.VacanciesSkipped,
		"elapsed", elapsed,
	)

	r.publisher.PublishRunSummary(ctx, runID, summary, elapsed)

	return summary, nil
}
