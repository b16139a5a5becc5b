package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hhboard/collector-service/internal/model"
)

const upsertEmployerSQL = `
	INSERT INTO employers (company_id, company_name, description, website, vacancies_url)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (company_id) DO UPDATE SET
		company_name  = EXCLUDED.company_name,
		description   = EXCLUDED.description,
		website       = EXCLUDED.website,
		vacancies_url = EXCLUDED.vacancies_url
	RETURNING employer_id`

const insertVacancySQL = `
	INSERT INTO vacancies (employer_id, vacancy_name, salary_from, salary_to, currency, url, requirement, responsibility)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (url) DO NOTHING`

// Writer persists ingestion batches. Employers are upserted by company_id
// (last write wins); vacancies are inserted with dedup by url (first write
// wins). The asymmetry is deliberate and mirrors how the data is consumed:
// company profiles go stale, posted vacancies do not change.
//
// Rows are written one statement at a time without an enclosing transaction:
// a data error on one row is logged and skipped, and previously written rows
// stay committed. A store that rejects the entire employer batch is treated
// as unreachable and fails the call.
type Writer struct {
	db             DB
	maxDescription int
	logger         *zap.SugaredLogger
}

// NewWriter constructs a Writer. maxDescription caps the stored employer
// description length in runes; longer text is truncated irreversibly.
func NewWriter(db DB, maxDescription int, logger *zap.SugaredLogger) *Writer {
	return &Writer{db: db, maxDescription: maxDescription, logger: logger}
}

// Persist writes the employer batch, then the vacancy batch.
//
// Employers go first because vacancies resolve their foreign key through the
// remote→local id mapping collected from the upserts' RETURNING clause — on a
// conflict-update that reads back the existing surrogate key rather than
// assuming a fresh one. A vacancy whose employer is absent from the mapping
// is skipped silently and counted: its employer failed to ingest, and the
// row would be an orphan.
func (w *Writer) Persist(ctx context.Context, employers []model.Employer, vacancies []model.Vacancy) (*model.PersistSummary, error) {
	summary := &model.PersistSummary{}
	mapping := make(map[string]int, len(employers))

	var lastErr error
	for _, e := range employers {
		var localID int
		err := w.db.QueryRow(ctx, upsertEmployerSQL,
			e.RemoteID,
			e.Name,
			truncate(e.Description, w.maxDescription),
			e.Website,
			e.VacanciesURL,
		).Scan(&localID)
		if err != nil {
			w.logger.Errorw("employer upsert failed — skipping", "companyId", e.RemoteID, "err", err)
			lastErr = err
			continue
		}
		mapping[e.RemoteID] = localID
		summary.EmployersSaved++
	}

	// Not a single employer went through: the store is effectively
	// unreachable, and every vacancy would fall into the referential guard.
	if len(employers) > 0 && summary.EmployersSaved == 0 {
		return nil, fmt.Errorf("no employer row could be written: %w", lastErr)
	}

	for _, v := range vacancies {
		summary.VacanciesAttempted++

		localID, ok := mapping[v.EmployerRemoteID]
		if !ok {
			summary.VacanciesSkipped++
			continue
		}

		tag, err := w.db.Exec(ctx, insertVacancySQL,
			localID,
			v.Title,
			v.SalaryFrom,
			v.SalaryTo,
			v.Currency,
			v.URL,
			v.Requirement,
			v.Responsibility,
		)
		if err != nil {
			w.logger.Errorw("vacancy insert failed — skipping", "url", v.URL, "err", err)
			continue
		}

		if tag.RowsAffected() == 0 {
			summary.VacancyDuplicates++
		} else {
			summary.VacanciesInserted++
		}
	}

	return summary, nil
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
