package storage

import (
	"testing"
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("https://example.com/post")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.Record
	}{
		{
			name: "minimal record",
			record: &core.Record{
				Id:               core.ID(1),
				SourceType:       core.SourceTypeBlog,
				SourceName:       "OpenAI Blog",
				Title:            "New model released",
				URL:              "https://openai.com/blog/new-model",
				PublishedAt:      now,
				PopularitySignal: core.PopularityAbsent,
				FetchedAt:        now,
			},
		},
		{
			name: "full record",
			record: &core.Record{
				Id:               core.IDFromContent("https://github.com/langchain-ai/langchain/releases/v1.0.0"),
				SourceType:       core.SourceTypeRelease,
				SourceName:       "LangChain GitHub",
				Title:            "[LangChain] v1.0.0: The big one",
				BodyExcerpt:      "Breaking change: the legacy chains module has been removed.",
				URL:              "https://github.com/langchain-ai/langchain/releases/v1.0.0",
				PublishedAt:      now.Add(-48 * time.Hour),
				PopularitySignal: 91234,
				Categories:       []string{"framework", "langchain"},
				IsBreakingChange: true,
				Score:            92.5,
				FetchedAt:        now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestUnmarshalRecord_Truncated(t *testing.T) {
	record := &core.Record{
		Id:          core.ID(7),
		SourceType:  core.SourceTypeForum,
		SourceName:  "Hacker News",
		Title:       "Show HN: something",
		URL:         "https://news.ycombinator.com/item?id=1",
		PublishedAt: time.Now().UTC(),
	}

	data := MarshalRecord(record)
	_, err := UnmarshalRecord(data[:len(data)/2])
	assert.Error(t, err)
}

func TestMarshalUnmarshalEmbeddingEntry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	entry := &core.EmbeddingEntry{
		RecordId:    core.ID(99),
		Vector:      []float32{0.25, -0.5, 0.125, 1},
		Title:       "DeepSeek V4 announced",
		URL:         "https://news.ycombinator.com/item?id=42",
		SourceName:  "Hacker News",
		SourceType:  core.SourceTypeForum,
		Categories:  []string{"llm"},
		PublishedAt: now,
		Score:       81,
		Excerpt:     "A new open-weight model tops the leaderboards.",
	}

	data := MarshalEmbeddingEntry(entry)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalEmbeddingEntry(data)
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	checkpoint := &core.Checkpoint{
		LastRunAt: now.Add(-6 * time.Hour),
		UpdatedAt: now,
	}

	data := MarshalCheckpoint(checkpoint)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalCheckpoint(data)
	require.NoError(t, err)
	assert.Equal(t, checkpoint, decoded)
}
