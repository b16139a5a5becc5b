// Package ui implements the interactive analytics menu over persisted data.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"hhboard/collector-service/internal/store"
)

// QueryService is the slice of the store the menu consumes.
type QueryService interface {
	CompaniesWithVacancyCounts(ctx context.Context) ([]store.CompanyVacancies, error)
	AllVacancies(ctx context.Context) ([]store.VacancyListing, error)
	AverageSalary(ctx context.Context) (float64, error)
	VacanciesAboveAverage(ctx context.Context) ([]store.VacancyListing, error)
	VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]store.VacancyListing, error)
}

// Menu is the text menu loop. Input and output are injected so tests can
// script a session.
type Menu struct {
	queries        QueryService
	in             *bufio.Scanner
	out            io.Writer
	defaultKeyword string
}

func NewMenu(queries QueryService, in io.Reader, out io.Writer, defaultKeyword string) *Menu {
	return &Menu{
		queries:        queries,
		in:             bufio.NewScanner(in),
		out:            out,
		defaultKeyword: defaultKeyword,
	}
}

// Run loops until the user picks exit or input ends. Query errors are printed
// and the loop continues; only a context cancellation or closed input ends it.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, strings.Repeat("=", 50))
		fmt.Fprintln(m.out, "HH.RU VACANCY ANALYTICS")
		fmt.Fprintln(m.out, strings.Repeat("=", 50))
		fmt.Fprintln(m.out, "1. Companies and vacancy counts")
		fmt.Fprintln(m.out, "2. All vacancies")
		fmt.Fprintln(m.out, "3. Average salary")
		fmt.Fprintln(m.out, "4. Vacancies with above-average salary")
		fmt.Fprintln(m.out, "5. Search vacancies by keyword")
		fmt.Fprintln(m.out, "0. Exit")
		fmt.Fprint(m.out, "\nChoose an option (0-5): ")

		if !m.in.Scan() {
			return m.in.Err()
		}
		choice := strings.TrimSpace(m.in.Text())

		var err error
		switch choice {
		case "1":
			err = m.showCompanyCounts(ctx)
		case "2":
			err = m.showVacancies(ctx, "ALL VACANCIES", m.queries.AllVacancies)
		case "3":
			err = m.showAverageSalary(ctx)
		case "4":
			err = m.showVacancies(ctx, "VACANCIES WITH ABOVE-AVERAGE SALARY", m.queries.VacanciesAboveAverage)
		case "5":
			err = m.searchByKeyword(ctx)
		case "0":
			fmt.Fprintln(m.out, "Bye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice, pick an option between 0 and 5.")
		}
		if err != nil {
			fmt.Fprintf(m.out, "Query failed: %v\n", err)
		}
	}
}

func (m *Menu) showCompanyCounts(ctx context.Context) error {
	companies, err := m.queries.CompaniesWithVacancyCounts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\n=== COMPANIES AND VACANCY COUNTS ===")
	for _, c := range companies {
		fmt.Fprintf(m.out, "- %s: %d vacancies\n", c.Company, c.Count)
	}
	return nil
}

func (m *Menu) showAverageSalary(ctx context.Context) error {
	avg, err := m.queries.AverageSalary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "\nAverage salary across all vacancies: %.2f\n", avg)
	return nil
}

func (m *Menu) searchByKeyword(ctx context.Context) error {
	fmt.Fprintf(m.out, "Keyword [%s]: ", m.defaultKeyword)
	keyword := m.defaultKeyword
	if m.in.Scan() {
		if text := strings.TrimSpace(m.in.Text()); text != "" {
			keyword = text
		}
	}

	vacancies, err := m.queries.VacanciesMatchingKeyword(ctx, keyword)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "\n=== SEARCH RESULTS FOR %q ===\n", keyword)
	if len(vacancies) == 0 {
		fmt.Fprintln(m.out, "No vacancies matched.")
		return nil
	}
	m.printListings(vacancies)
	return nil
}

func (m *Menu) showVacancies(ctx context.Context, header string, query func(context.Context) ([]store.VacancyListing, error)) error {
	vacancies, err := query(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "\n=== %s ===\n", header)
	m.printListings(vacancies)
	return nil
}

func (m *Menu) printListings(vacancies []store.VacancyListing) {
	for _, v := range vacancies {
		fmt.Fprintf(m.out, "- %s - %s\n", v.Company, v.Title)
		fmt.Fprintf(m.out, "  Salary: %s\n", FormatSalary(v.SalaryFrom, v.SalaryTo, v.Currency))
		fmt.Fprintf(m.out, "  Link: %s\n", v.URL)
	}
}

// FormatSalary renders a salary range for display. Currency falls back to
// RUR, the remote API's default.
func FormatSalary(from, to *int, currency *string) string {
	cur := "RUR"
	if currency != nil && *currency != "" {
		cur = *currency
	}
	switch {
	case from != nil && to != nil:
		return fmt.Sprintf("%d - %d %s", *from, *to, cur)
	case from != nil:
		return fmt.Sprintf("from %d %s", *from, cur)
	case to != nil:
		return fmt.Sprintf("up to %d %s", *to, cur)
	default:
		return "not specified"
	}
}
