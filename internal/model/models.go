// Package model defines shared data structures for the collector service.
package model

// Employer is a normalised company record fetched from the hh.ru API.
// RemoteID is the hh.ru identifier and the natural key for upserts; the
// surrogate employer_id is assigned by PostgreSQL and never leaves the store
// except through the remote→local mapping built during one persist batch.
type Employer struct {
	RemoteID     string
	Name         string
	Description  string
	Website      string
	VacanciesURL string
}

// Vacancy is a normalised job posting tied to exactly one employer.
// URL is the canonical hh.ru permalink and the natural key for dedup inserts.
// Salary bounds and currency are independently optional.
type Vacancy struct {
	EmployerRemoteID string
	Title            string
	SalaryFrom       *int
	SalaryTo         *int
	Currency         *string
	URL              string
	Requirement      string
	Responsibility   string
}

// PersistSummary reports what one persistence batch actually did.
// VacanciesAttempted = VacanciesInserted + VacancyDuplicates + VacanciesSkipped.
type PersistSummary struct {
	EmployersSaved     int
	VacanciesAttempted int
	VacanciesInserted  int
	VacanciesSkipped   int // employer never made it into the batch — referential guard
	VacancyDuplicates  int // url already on file — first write wins
}
