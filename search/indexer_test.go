package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/halcyon/trendwatch/ai/mock"
	"github.com/halcyon/trendwatch/core"
	badgerstore "github.com/halcyon/trendwatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexTestRecord(title string, publishedAt time.Time) *core.Record {
	return &core.Record{
		Id:               core.IDFromContent(title),
		SourceType:       core.SourceTypeRelease,
		SourceName:       "github/langchain",
		Title:            title,
		BodyExcerpt:      "release notes for " + title,
		URL:              "https://example.com/" + title,
		PublishedAt:      publishedAt,
		PopularitySignal: 1200,
		Categories:       []string{"framework"},
		Score:            72.5,
		FetchedAt:        time.Now().UTC(),
	}
}

func TestNewIndexer_RequiresDependencies(t *testing.T) {
	_, index, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	_, err = NewIndexer(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrVectorIndexRequired)

	_, err = NewIndexer(index, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestIndexer_Index_WritesNewEntries(t *testing.T) {
	_, index, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	indexer, err := NewIndexer(index, mock.NewMockProvider())
	require.NoError(t, err)

	now := time.Now().UTC()
	records := []*core.Record{
		indexTestRecord("langchain v0.3.0", now),
		indexTestRecord("llamaindex v0.12.1", now.Add(-time.Hour)),
	}

	written, err := indexer.Index(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexer_Index_SkipsExistingEntries(t *testing.T) {
	_, index, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	indexer, err := NewIndexer(index, mock.NewMockProvider())
	require.NoError(t, err)

	records := []*core.Record{indexTestRecord("dify v1.0.0", time.Now().UTC())}

	written, err := indexer.Index(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	// Re-running the same batch is a no-op.
	written, err = indexer.Index(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 0, written)

	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIndexer_Index_EmptyBatch(t *testing.T) {
	_, index, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	indexer, err := NewIndexer(index, provider)
	require.NoError(t, err)

	written, err := indexer.Index(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestIndexer_Index_EmbeddingFailure(t *testing.T) {
	_, index, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedFailure := errors.New("embedding host unreachable")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedFailure
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	indexer, err := NewIndexer(index, provider)
	require.NoError(t, err)

	written, err := indexer.Index(context.Background(), []*core.Record{
		indexTestRecord("autogen v0.4.0", time.Now().UTC()),
	})
	assert.ErrorIs(t, err, embedFailure)
	assert.Equal(t, 0, written)

	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
