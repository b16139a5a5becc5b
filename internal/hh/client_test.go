package hh_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hhboard/collector-service/internal/hh"
)

func newTestClient(baseURL string) *hh.Client {
	return hh.NewClient(baseURL, 2*time.Second, 100, zap.NewNop().Sugar())
}

func vacancyItem(title string) map[string]any {
	return map[string]any{
		"name":          title,
		"employer":      map[string]any{"id": "1"},
		"alternate_url": "https://hh.ru/vacancy/" + title,
		"snippet":       map[string]any{},
	}
}

func writePage(w http.ResponseWriter, pages int, items ...map[string]any) {
	if items == nil {
		items = []map[string]any{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "pages": pages})
}

func TestFetchAllVacancies_WalksEveryDeclaredPage(t *testing.T) {
	var requests []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vacancies", r.URL.Path)
		require.Equal(t, "100", r.URL.Query().Get("per_page"))
		require.Equal(t, "42", r.URL.Query().Get("employer_id"))

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)
		requests = append(requests, page)

		writePage(w, 3,
			vacancyItem(fmt.Sprintf("p%d-a", page)),
			vacancyItem(fmt.Sprintf("p%d-b", page)),
		)
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).FetchAllVacancies(context.Background(), "42")
	require.NoError(t, err)

	require.Equal(t, []int{0, 1, 2}, requests, "expected exactly one request per declared page")
	require.Len(t, items, 6)
	// Accumulation keeps page order.
	require.Equal(t, "p0-a", items[0].Name)
	require.Equal(t, "p1-a", items[2].Name)
	require.Equal(t, "p2-b", items[5].Name)
}

func TestFetchAllVacancies_MissingPageCountMeansSinglePage(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		writePage(w, 0, vacancyItem("only"))
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).FetchAllVacancies(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, 1, requests)
	require.Len(t, items, 1)
}

func TestFetchAllVacancies_EmptyPageKeepsPaging(t *testing.T) {
	// The page count is trusted, not item presence: an empty first page with
	// more pages declared must not stop the walk.
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page") == "0" {
			writePage(w, 2)
			return
		}
		writePage(w, 2, vacancyItem("late"))
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).FetchAllVacancies(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, 2, requests)
	require.Len(t, items, 1)
	require.Equal(t, "late", items[0].Name)
}

func TestFetchAllVacancies_MidPaginationFailureKeepsPartialResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "0" {
			writePage(w, 3, vacancyItem("first"))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).FetchAllVacancies(context.Background(), "42")
	require.Error(t, err)
	require.Len(t, items, 1, "pages fetched before the failure are kept")
	require.Equal(t, "first", items[0].Name)
}

func TestFetchEmployer_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/employers/15478", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "15478",
			"name":          "VK",
			"description":   "social things",
			"site_url":      "https://vk.com",
			"vacancies_url": "https://api.hh.ru/vacancies?employer_id=15478",
		})
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL).FetchEmployer(context.Background(), "15478")
	require.NoError(t, err)
	require.Equal(t, "15478", rec.ID)
	require.Equal(t, "VK", rec.Name)
	require.Equal(t, "https://vk.com", rec.SiteURL)
}

func TestFetchEmployer_NonOKStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"description":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchEmployer(context.Background(), "0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestFetchEmployer_MalformedBodyIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchEmployer(context.Background(), "1")
	require.Error(t, err)
}
