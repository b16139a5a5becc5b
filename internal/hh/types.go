package hh

// EmployerRecord mirrors the hh.ru employer endpoint response.
type EmployerRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	SiteURL      string `json:"site_url"`
	VacanciesURL string `json:"vacancies_url"`
}

// vacancySearchResponse mirrors the paged vacancy search envelope.
type vacancySearchResponse struct {
	Items []VacancyRecord `json:"items"`
	Pages int             `json:"pages"`
}

// VacancyRecord mirrors a single item of the vacancy search response.
type VacancyRecord struct {
	Name         string          `json:"name"`
	Employer     vacancyEmployer `json:"employer"`
	Salary       *SalaryRecord   `json:"salary"`
	AlternateURL string          `json:"alternate_url"`
	Snippet      SnippetRecord   `json:"snippet"`
}

type vacancyEmployer struct {
	ID string `json:"id"`
}

// SalaryRecord is the nullable salary object. The object itself may be null,
// and each field inside it is independently optional.
type SalaryRecord struct {
	From     *int    `json:"from"`
	To       *int    `json:"to"`
	Currency *string `json:"currency"`
}

type SnippetRecord struct {
	Requirement    string `json:"requirement"`
	Responsibility string `json:"responsibility"`
}
