package badger

import (
	"context"
	"testing"
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(title string, published time.Time, score float64) *core.Record {
	return &core.Record{
		Id:               core.IDFromContent(title),
		SourceType:       core.SourceTypeBlog,
		SourceName:       "test-blog",
		Title:            title,
		BodyExcerpt:      "excerpt for " + title,
		URL:              "https://example.com/" + title,
		PublishedAt:      published.UTC(),
		PopularitySignal: core.PopularityAbsent,
		Categories:       []string{"llm"},
		Score:            score,
		FetchedAt:        time.Now().UTC(),
	}
}

func TestCommitCycle_AdmitsAndArchives(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	rec := testRecord("first", now.Add(-time.Hour), 55)

	stats, err := records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:  []*core.Record{rec},
		CycleTime: now,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Upserted)
	assert.Equal(t, 1, stats.Archived)
	assert.Equal(t, 0, stats.Pruned)

	window, err := records.Window(ctx)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, rec.Id, window[0].Id)

	archived, err := records.ArchivedMonth(ctx, rec.ArchiveMonth())
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, rec.Id, archived[0].Id)
}

func TestCommitCycle_ArchiveOnlySkipsWindow(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	rec := testRecord("low-signal", now.Add(-time.Hour), 12)

	stats, err := records.CommitCycle(ctx, &storage.CycleBatch{
		ArchiveOnly: []*core.Record{rec},
		CycleTime:   now,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Upserted)
	assert.Equal(t, 1, stats.Archived)

	window, err := records.Window(ctx)
	require.NoError(t, err)
	assert.Empty(t, window)

	archived, err := records.ArchivedMonth(ctx, rec.ArchiveMonth())
	require.NoError(t, err)
	assert.Len(t, archived, 1)
}

func TestCommitCycle_NilBatch(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	_, err = records.CommitCycle(context.Background(), nil)
	assert.ErrorIs(t, err, storage.ErrEmptyBatch)
}

func TestCommitCycle_UpsertPreservesScore(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	original := testRecord("stable", now.Add(-2*time.Hour), 70)
	_, err = records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:  []*core.Record{original},
		CycleTime: now,
	})
	require.NoError(t, err)

	// Same ID, fresher metadata, different score.
	refetched := *original
	refetched.Score = 40
	refetched.Categories = []string{"other"}
	refetched.PopularitySignal = 420
	refetched.Title = "stable (updated)"
	refetched.FetchedAt = now.Add(time.Hour)

	_, err = records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:  []*core.Record{&refetched},
		CycleTime: now.Add(time.Hour),
	})
	require.NoError(t, err)

	got, err := records.GetRecord(ctx, original.Id)
	require.NoError(t, err)
	assert.Equal(t, 70.0, got.Score)
	assert.Equal(t, []string{"llm"}, got.Categories)
	assert.Equal(t, int64(420), got.PopularitySignal)
	assert.Equal(t, "stable (updated)", got.Title)
}

func TestCommitCycle_ForceUpdateOverwrites(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	original := testRecord("rescored", now.Add(-2*time.Hour), 70)
	_, err = records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:  []*core.Record{original},
		CycleTime: now,
	})
	require.NoError(t, err)

	rescored := *original
	rescored.Score = 88

	_, err = records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:    []*core.Record{&rescored},
		CycleTime:   now.Add(time.Hour),
		ForceUpdate: true,
	})
	require.NoError(t, err)

	got, err := records.GetRecord(ctx, original.Id)
	require.NoError(t, err)
	assert.Equal(t, 88.0, got.Score)
}

func TestCommitCycle_PrunesExpiredRecords(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	old := testRecord("ancient", now.Add(-40*24*time.Hour), 80)
	fresh := testRecord("fresh", now.Add(-time.Hour), 60)

	_, err = records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:  []*core.Record{old, fresh},
		CycleTime: now.Add(-35 * 24 * time.Hour),
	})
	require.NoError(t, err)

	stats, err := records.CommitCycle(ctx, &storage.CycleBatch{
		CycleTime: now,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pruned)

	window, err := records.Window(ctx)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, fresh.Id, window[0].Id)

	// Pruned records remain reachable through the archive.
	archived, err := records.ArchivedMonth(ctx, old.ArchiveMonth())
	require.NoError(t, err)
	assert.Len(t, archived, 1)

	_, err = records.GetRecord(ctx, old.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWindow_OrderedByScoreThenRecency(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	a := testRecord("alpha", now.Add(-3*time.Hour), 50)
	b := testRecord("beta", now.Add(-time.Hour), 50)
	c := testRecord("gamma", now.Add(-2*time.Hour), 90)

	_, err = records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:  []*core.Record{a, b, c},
		CycleTime: now,
	})
	require.NoError(t, err)

	window, err := records.Window(ctx)
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, c.Id, window[0].Id)
	assert.Equal(t, b.Id, window[1].Id)
	assert.Equal(t, a.Id, window[2].Id)
}

func TestSeenIDs_CoversWindowAndArchive(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	admitted := testRecord("kept", now.Add(-time.Hour), 60)
	archiveOnly := testRecord("dropped", now.Add(-time.Hour), 15)

	_, err = records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:    []*core.Record{admitted},
		ArchiveOnly: []*core.Record{archiveOnly},
		CycleTime:   now,
	})
	require.NoError(t, err)

	seen, err := records.SeenIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, seen, admitted.Id)
	assert.Contains(t, seen, archiveOnly.Id)
	assert.Len(t, seen, 2)
}

func TestGetRecord_NotFound(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	_, err = records.GetRecord(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoadCheckpoint_ColdStart(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	checkpoint, err := records.LoadCheckpoint(context.Background())
	require.NoError(t, err)
	assert.Nil(t, checkpoint)
}

func TestLoadCheckpoint_AfterCycle(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	cycleTime := time.Now().UTC().Truncate(time.Microsecond)

	_, err = records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:  []*core.Record{testRecord("one", cycleTime.Add(-time.Hour), 50)},
		CycleTime: cycleTime,
	})
	require.NoError(t, err)

	checkpoint, err := records.LoadCheckpoint(ctx)
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.True(t, checkpoint.LastRunAt.Equal(cycleTime))
}

func TestArchiveAppend_DoesNotOverwrite(t *testing.T) {
	records, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	rec := testRecord("immutable", now.Add(-time.Hour), 65)
	_, err = records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:  []*core.Record{rec},
		CycleTime: now,
	})
	require.NoError(t, err)

	mutated := *rec
	mutated.Score = 10
	stats, err := records.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:    []*core.Record{&mutated},
		CycleTime:   now.Add(time.Hour),
		ForceUpdate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Archived)

	archived, err := records.ArchivedMonth(ctx, rec.ArchiveMonth())
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, 65.0, archived[0].Score)
}
