package trendwatch

import (
	"context"
	"testing"

	"github.com/halcyon/trendwatch/ai/mock"
	"github.com/halcyon/trendwatch/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	tracker, err := NewTracker(config.Default(),
		WithInMemoryStorage(),
		WithProvider(mock.NewMockProvider()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { tracker.Close() })
	return tracker
}

func TestNewTracker_RejectsInvalidConfig(t *testing.T) {
	_, err := NewTracker(config.Config{})
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestTracker_BuildsComponents(t *testing.T) {
	tracker := newTestTracker(t)

	p, err := tracker.NewPipeline()
	require.NoError(t, err)
	defer p.Release()

	engine, err := tracker.NewEngine()
	require.NoError(t, err)
	assert.NotNil(t, engine)

	exporter, err := tracker.NewExporter()
	require.NoError(t, err)
	assert.NotNil(t, exporter)
}

func TestTracker_StoresShareBackend(t *testing.T) {
	tracker := newTestTracker(t)

	window, err := tracker.RecordStore().Window(context.Background())
	require.NoError(t, err)
	assert.Empty(t, window)

	count, err := tracker.VectorIndex().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTracker_NewScheduler(t *testing.T) {
	tracker := newTestTracker(t)

	p, err := tracker.NewPipeline()
	require.NoError(t, err)
	defer p.Release()

	service, err := tracker.NewScheduler(p)
	require.NoError(t, err)
	assert.NotNil(t, service)
}

func TestAIConfigFrom(t *testing.T) {
	cfg := config.Default()
	cfg.AI.Host = "http://models.internal:8080"
	cfg.AI.EmbeddingModel = "bge-m3"

	aiConfig := aiConfigFrom(cfg)
	require.NoError(t, aiConfig.Validate())
	assert.Equal(t, "http://models.internal:8080/v1", aiConfig.EmbeddingHost)
	assert.Equal(t, "http://models.internal:8080/v1", aiConfig.GeneratorHost)
	assert.Equal(t, "bge-m3", aiConfig.EmbeddingModel)
}
