package store

import (
	"context"
	"fmt"
	"math"
)

// CompanyVacancies is one row of the companies-with-counts report.
type CompanyVacancies struct {
	Company string
	Count   int
}

// VacancyListing is the shared projection of the vacancy reports.
type VacancyListing struct {
	Company    string
	Title      string
	SalaryFrom *int
	SalaryTo   *int
	Currency   *string
	URL        string
}

// Queries provides the read-only analytics over persisted data.
type Queries struct {
	db DB
}

func NewQueries(db DB) *Queries {
	return &Queries{db: db}
}

// CompaniesWithVacancyCounts returns every employer with its vacancy count,
// busiest first. Employers without a single vacancy are included with zero.
func (q *Queries) CompaniesWithVacancyCounts(ctx context.Context) ([]CompanyVacancies, error) {
	rows, err := q.db.Query(ctx, `
		SELECT e.company_name, COUNT(v.vacancy_id) AS vacancies_count
		FROM employers e
		LEFT JOIN vacancies v ON e.employer_id = v.employer_id
		GROUP BY e.company_name
		ORDER BY vacancies_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("query company counts: %w", err)
	}
	defer rows.Close()

	var out []CompanyVacancies
	for rows.Next() {
		var c CompanyVacancies
		if err := rows.Scan(&c.Company, &c.Count); err != nil {
			return nil, fmt.Errorf("scan company counts: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllVacancies returns every vacancy joined with its employer name, ordered
// by employer name then vacancy title.
func (q *Queries) AllVacancies(ctx context.Context) ([]VacancyListing, error) {
	return q.listVacancies(ctx, `
		SELECT e.company_name, v.vacancy_name, v.salary_from, v.salary_to, v.currency, v.url
		FROM vacancies v
		JOIN employers e ON v.employer_id = e.employer_id
		ORDER BY e.company_name, v.vacancy_name`)
}

// AverageSalary returns the mean of the salary midpoints, rounded to two
// decimal places. A vacancy's midpoint is (from+to)/2 with an absent bound
// counted as 0; vacancies with neither bound are excluded entirely. Returns
// 0 when no vacancy qualifies.
func (q *Queries) AverageSalary(ctx context.Context) (float64, error) {
	var avg *float64
	err := q.db.QueryRow(ctx, `
		SELECT AVG((COALESCE(salary_from, 0) + COALESCE(salary_to, 0)) / 2.0)
		FROM vacancies
		WHERE salary_from IS NOT NULL OR salary_to IS NOT NULL`).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("query average salary: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return math.Round(*avg*100) / 100, nil
}

// VacanciesAboveAverage returns the vacancies whose salary midpoint exceeds
// the current average, highest first. The average is computed up front and
// bound as a parameter, so both reports always agree on the threshold.
func (q *Queries) VacanciesAboveAverage(ctx context.Context) ([]VacancyListing, error) {
	avg, err := q.AverageSalary(ctx)
	if err != nil {
		return nil, err
	}
	return q.listVacancies(ctx, `
		SELECT e.company_name, v.vacancy_name, v.salary_from, v.salary_to, v.currency, v.url
		FROM vacancies v
		JOIN employers e ON v.employer_id = e.employer_id
		WHERE (COALESCE(v.salary_from, 0) + COALESCE(v.salary_to, 0)) / 2.0 > $1
		ORDER BY (COALESCE(v.salary_from, 0) + COALESCE(v.salary_to, 0)) / 2.0 DESC`, avg)
}

// VacanciesMatchingKeyword returns the vacancies whose title contains keyword,
// case-insensitively. Titles only — requirement and responsibility text is
// not searched.
func (q *Queries) VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]VacancyListing, error) {
	return q.listVacancies(ctx, `
		SELECT e.company_name, v.vacancy_name, v.salary_from, v.salary_to, v.currency, v.url
		FROM vacancies v
		JOIN employers e ON v.employer_id = e.employer_id
		WHERE v.vacancy_name ILIKE '%' || $1 || '%'
		ORDER BY e.company_name, v.vacancy_name`, keyword)
}

func (q *Queries) listVacancies(ctx context.Context, sql string, args ...any) ([]VacancyListing, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query vacancies: %w", err)
	}
	defer rows.Close()

	var out []VacancyListing
	for rows.Next() {
		var v VacancyListing
		if err := rows.Scan(&v.Company, &v.Title, &v.SalaryFrom, &v.SalaryTo, &v.Currency, &v.URL); err != nil {
			return nil, fmt.Errorf("scan vacancy: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
