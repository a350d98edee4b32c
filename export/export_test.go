package export

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
	badgerstore "github.com/halcyon/trendwatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportClock = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func exportTestRecord(title, category string, score float64, breaking bool) *core.Record {
	return &core.Record{
		Id:               core.IDFromContent(title),
		SourceType:       core.SourceTypeBlog,
		SourceName:       "langchain-blog",
		Title:            title,
		BodyExcerpt:      "details about " + title,
		URL:              "https://example.com/" + strings.ReplaceAll(title, " ", "-"),
		PublishedAt:      exportClock.Add(-24 * time.Hour),
		PopularitySignal: core.PopularityAbsent,
		Categories:       []string{category},
		IsBreakingChange: breaking,
		Score:            score,
		FetchedAt:        exportClock,
	}
}

func newTestExporter(t *testing.T, records []*core.Record) *Exporter {
	t.Helper()

	store, _, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	if len(records) > 0 {
		_, err = store.CommitCycle(context.Background(), &storage.CycleBatch{
			Admitted:  records,
			CycleTime: exportClock,
		})
		require.NoError(t, err)
	}

	exporter, err := NewExporter(store, WithClock(func() time.Time { return exportClock }))
	require.NoError(t, err)
	return exporter
}

func TestNewExporter_RequiresStore(t *testing.T) {
	_, err := NewExporter(nil)
	assert.ErrorIs(t, err, ErrRecordStoreRequired)
}

func TestMarkdown_BreakingChangesLead(t *testing.T) {
	records := []*core.Record{
		exportTestRecord("langchain drops python 3.8", "framework", 92.0, true),
		exportTestRecord("new rag benchmark", "rag", 70.0, false),
		exportTestRecord("qwen3 released", "llm", 85.0, false),
	}

	exporter := newTestExporter(t, records)
	doc, err := exporter.Markdown(context.Background())
	require.NoError(t, err)

	assert.Contains(t, doc, "# AI Ecosystem Signal Context")
	assert.Contains(t, doc, "Generated: 2025-06-10T12:00:00Z")
	assert.Contains(t, doc, "Records: 3 (filtered and scored)")

	breakingIdx := strings.Index(doc, "## Breaking Changes")
	llmIdx := strings.Index(doc, "## LLM News")
	ragIdx := strings.Index(doc, "## RAG Techniques")
	require.NotEqual(t, -1, breakingIdx)
	require.NotEqual(t, -1, llmIdx)
	require.NotEqual(t, -1, ragIdx)

	// Breaking section first, then category sections in fixed order.
	assert.Less(t, breakingIdx, llmIdx)
	assert.Less(t, llmIdx, ragIdx)

	// The breaking record appears only in the breaking section.
	assert.Equal(t, 1, strings.Count(doc, "langchain drops python 3.8"))
	assert.Contains(t, doc, "⚠️ Breaking Change")
	assert.Contains(t, doc, "(score: 92.0)")
	assert.NotContains(t, doc, "## Framework Updates")
}

func TestMarkdown_EmptySectionsOmitted(t *testing.T) {
	records := []*core.Record{
		exportTestRecord("agent memory deep dive", "agent", 60.0, false),
	}

	exporter := newTestExporter(t, records)
	doc, err := exporter.Markdown(context.Background())
	require.NoError(t, err)

	assert.Contains(t, doc, "## AI Agents")
	assert.NotContains(t, doc, "## LLM News")
	assert.NotContains(t, doc, "## Breaking Changes")
}

func TestMarkdown_EmptyWindow(t *testing.T) {
	exporter := newTestExporter(t, nil)

	doc, err := exporter.Markdown(context.Background())
	require.NoError(t, err)
	assert.Contains(t, doc, "Records: 0 (filtered and scored)")
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "(no summary)", summarize(""))
	assert.Equal(t, "one line", summarize("one\nline"))

	long := strings.Repeat("x", 250)
	assert.Len(t, summarize(long), summaryLimit)
}

func TestJSON_StablePayload(t *testing.T) {
	records := []*core.Record{
		exportTestRecord("qwen3 released", "llm", 85.0, false),
		exportTestRecord("new rag benchmark", "rag", 70.0, false),
	}

	exporter := newTestExporter(t, records)
	data, err := exporter.JSON(context.Background())
	require.NoError(t, err)

	var payload WindowPayload
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Equal(t, exportClock, payload.GeneratedAt)
	assert.Equal(t, 2, payload.Total)
	require.Len(t, payload.Items, 2)

	// Window order is score descending.
	assert.Equal(t, "qwen3 released", payload.Items[0].Title)
	assert.Equal(t, 85.0, payload.Items[0].Score)
	assert.Equal(t, "blog", payload.Items[0].SourceType)
	assert.Equal(t, []string{"llm"}, payload.Items[0].Categories)

	// Contract field names.
	assert.Contains(t, string(data), `"generated_at"`)
	assert.Contains(t, string(data), `"is_breaking_change"`)
	assert.Contains(t, string(data), `"popularity"`)
}

func TestJSON_EmptyWindow(t *testing.T) {
	exporter := newTestExporter(t, nil)

	data, err := exporter.JSON(context.Background())
	require.NoError(t, err)

	var payload WindowPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, 0, payload.Total)
	assert.Empty(t, payload.Items)
}
