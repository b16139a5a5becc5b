// Package hh implements the hh.ru public API client used for ingestion.
package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client fetches employer and vacancy data from the hh.ru public API.
// Every request carries the client's fixed timeout; no retries are attempted —
// a single failure is terminal for that one request.
type Client struct {
	baseURL string
	perPage int
	client  *http.Client
	logger  *zap.SugaredLogger
}

// NewClient constructs a Client with a shared HTTP client.
func NewClient(baseURL string, timeout time.Duration, perPage int, logger *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		perPage: perPage,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchEmployer retrieves one employer record by its hh.ru identifier.
// Any transport error, non-200 status or malformed body is returned as an
// error; callers treat it as "no data for this id" and skip the employer.
func (c *Client) FetchEmployer(ctx context.Context, employerID string) (*EmployerRecord, error) {
	endpoint := fmt.Sprintf("%s/employers/%s", c.baseURL, url.PathEscape(employerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("hh returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rec EmployerRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode employer: %w", err)
	}

	return &rec, nil
}

// FetchAllVacancies retrieves every vacancy of one employer, walking pages
// from 0 until the declared page count is exhausted. An empty page does not
// stop the walk — the declared count is trusted, not item presence.
//
// A page error returns the items collected so far together with the error;
// callers log it and keep the partial results.
func (c *Client) FetchAllVacancies(ctx context.Context, employerID string) ([]VacancyRecord, error) {
	var all []VacancyRecord

	for page := 0; ; page++ {
		items, pages, err := c.fetchVacancyPage(ctx, employerID, page)
		if err != nil {
			return all, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, items...)

		if pages <= 0 {
			pages = 1
		}
		if page >= pages-1 {
			break
		}
	}

	return all, nil
}

func (c *Client) fetchVacancyPage(ctx context.Context, employerID string, page int) ([]VacancyRecord, int, error) {
	params := url.Values{}
	params.Set("employer_id", employerID)
	params.Set("per_page", strconv.Itoa(c.perPage))
	params.Set("page", strconv.Itoa(page))

	reqURL := c.baseURL + "/vacancies?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("hh returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope vacancySearchResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, 0, fmt.Errorf("json unmarshal: %w", err)
	}

	c.logger.Debugw("vacancy page fetched",
		"employerId", employerID, "page", page, "items", len(envelope.Items), "pages", envelope.Pages)

	return envelope.Items, envelope.Pages, nil
}
