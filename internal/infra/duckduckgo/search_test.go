package duckduckgo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"voice-assistant/internal/infra/duckduckgo"
)

func resultsServer(t *testing.T, gotQuery *string) *httptest.Server {
	t.Helper()
	page, err := os.ReadFile("testdata/results.html")
	require.NoError(t, err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		*gotQuery = r.PostForm.Get("q")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}))
}

func TestClient_Results(t *testing.T) {
	var query string
	server := resultsServer(t, &query)
	defer server.Close()

	client := duckduckgo.NewClient(duckduckgo.WithBaseURL(server.URL))

	results, err := client.Results(context.Background(), "weather in paris today")
	require.NoError(t, err)
	require.Equal(t, "weather in paris today", query)

	require.Equal(t, []duckduckgo.Result{
		{Title: "Paris Weather Forecast", URL: "https://weather.example/paris", Snippet: "Today: sunny, high of 24°C."},
		{Title: "France news live", URL: "https://news.example/france", Snippet: "Latest headlines from France."},
		{Title: "Third hit", URL: "https://third.example/"},
	}, results)
}

func TestClient_MaxResults(t *testing.T) {
	var query string
	server := resultsServer(t, &query)
	defer server.Close()

	client := duckduckgo.NewClient(duckduckgo.WithBaseURL(server.URL), duckduckgo.WithMaxResults(1))

	results, err := client.Results(context.Background(), "paris")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Paris Weather Forecast", results[0].Title)
}

func TestClient_Search(t *testing.T) {
	var query string
	server := resultsServer(t, &query)
	defer server.Close()

	client := duckduckgo.NewClient(duckduckgo.WithBaseURL(server.URL), duckduckgo.WithMaxResults(2))

	text, err := client.Search(context.Background(), "paris")
	require.NoError(t, err)
	require.Equal(t, "Found 2 results:\n"+
		"1. Paris Weather Forecast - Today: sunny, high of 24°C. (https://weather.example/paris)\n"+
		"2. France news live - Latest headlines from France. (https://news.example/france)", text)
}

func TestClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client := duckduckgo.NewClient(duckduckgo.WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), "latest news")
	require.Error(t, err)
	require.Contains(t, err.Error(), "duckduckgo API error 403")
}

func TestClient_EmptyQuery(t *testing.T) {
	client := duckduckgo.NewClient()

	_, err := client.Search(context.Background(), "   ")
	require.Error(t, err)
}

func TestFormatResults(t *testing.T) {
	require.Equal(t, "No search results found.", duckduckgo.FormatResults(nil))

	long := strings.Repeat("é", 400)
	out := duckduckgo.FormatResults([]duckduckgo.Result{{Title: "Long", Snippet: long}})
	require.Contains(t, out, strings.Repeat("é", 300)+"...")
	require.NotContains(t, out, strings.Repeat("é", 301))
}
