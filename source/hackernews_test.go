package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHackerNewsAdapter_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filters := r.URL.Query().Get("numericFilters")
		assert.True(t, strings.HasPrefix(filters, "points>=50"), filters)
		assert.Equal(t, "story", r.URL.Query().Get("tags"))

		// Same story returned for both keywords; must be deduplicated.
		fmt.Fprint(w, `{"hits": [
			{
				"objectID": "101",
				"title": "New agent framework released",
				"url": "https://example.com/agents",
				"points": 220,
				"created_at_i": 1748857200
			},
			{
				"objectID": "102",
				"title": "Ask HN: local LLM setups?",
				"url": "",
				"points": 95,
				"created_at_i": 1748860800
			}
		]}`)
	}))
	defer server.Close()

	adapter, err := NewHackerNewsAdapter(Options{
		BaseURL:  server.URL,
		Keywords: []string{"agent", "LLM"},
	})
	require.NoError(t, err)

	result := adapter.Fetch(context.Background(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, result.Err)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, core.SourceTypeForum, first.SourceType)
	assert.Equal(t, "Hacker News", first.SourceName)
	assert.Equal(t, int64(220), first.PopularitySignal)

	// Stories without a URL link back to the HN item page.
	assert.Equal(t, "https://news.ycombinator.com/item?id=102", result.Records[1].URL)
}

func TestHackerNewsAdapter_SinceFilterInQuery(t *testing.T) {
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filters := r.URL.Query().Get("numericFilters")
		assert.Contains(t, filters, fmt.Sprintf("created_at_i>=%d", since.Unix()))
		fmt.Fprint(w, `{"hits": []}`)
	}))
	defer server.Close()

	adapter, err := NewHackerNewsAdapter(Options{
		BaseURL:  server.URL,
		Keywords: []string{"RAG"},
	})
	require.NoError(t, err)

	result := adapter.Fetch(context.Background(), since)
	require.NoError(t, result.Err)
	assert.Empty(t, result.Records)
}

func TestHackerNewsAdapter_PartialFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"hits": [
			{"objectID": "7", "title": "Survivor", "url": "https://example.com/s", "points": 80, "created_at_i": 1748857200}
		]}`)
	}))
	defer server.Close()

	adapter, err := NewHackerNewsAdapter(Options{
		BaseURL:  server.URL,
		Keywords: []string{"first", "second"},
	})
	require.NoError(t, err)

	result := adapter.Fetch(context.Background(), time.Time{})
	assert.Error(t, result.Err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Survivor", result.Records[0].Title)
}
