// Copyright 2025 Halcyon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package trendwatch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/halcyon/trendwatch/ai"
	"github.com/halcyon/trendwatch/ai/openai"
	"github.com/halcyon/trendwatch/config"
	"github.com/halcyon/trendwatch/export"
	"github.com/halcyon/trendwatch/pipeline"
	"github.com/halcyon/trendwatch/schedule"
	"github.com/halcyon/trendwatch/search"
	"github.com/halcyon/trendwatch/source"
	"github.com/halcyon/trendwatch/storage"
	"github.com/halcyon/trendwatch/storage/badger"
)

// Tracker bundles the storage backend, AI provider and configuration into
// one handle the factory methods below build components from.
type Tracker struct {
	cfg      config.Config
	backend  *badger.Backend
	records  storage.RecordStore
	vectors  storage.VectorIndex
	provider ai.Provider
	logger   *slog.Logger
}

// TrackerOption configures a Tracker.
type TrackerOption func(*trackerOptions)

type trackerOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig overrides the AI settings derived from the application config.
func WithAIConfig(aiConfig *ai.Config) TrackerOption {
	return func(o *trackerOptions) {
		o.aiConfig = aiConfig
	}
}

// WithProvider injects a pre-built AI provider instead of dialing one.
func WithProvider(provider ai.Provider) TrackerOption {
	return func(o *trackerOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all state in memory. Used by tests.
func WithInMemoryStorage() TrackerOption {
	return func(o *trackerOptions) {
		o.inMemory = true
	}
}

// NewTracker validates the configuration, opens the storage backend under
// cfg.DataDir and connects the AI provider.
func NewTracker(cfg config.Config, opts ...TrackerOption) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &trackerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	dbPath := filepath.Join(cfg.DataDir, "db")
	if options.inMemory {
		dbPath = ""
	}
	backend, err := badger.OpenBackend(dbPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		aiConfig := options.aiConfig
		if aiConfig == nil {
			aiConfig = aiConfigFrom(cfg)
		}
		provider, err = openai.NewProvider(aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Tracker{
		cfg:      cfg,
		backend:  backend,
		records:  badger.NewRecordStore(backend),
		vectors:  badger.NewVectorIndex(backend),
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// aiConfigFrom maps the application AI section onto the service config.
func aiConfigFrom(cfg config.Config) *ai.Config {
	opts := make([]ai.ConfigOption, 0, 5)
	if cfg.AI.Host != "" {
		opts = append(opts, ai.WithHost(cfg.AI.Host))
	}
	if cfg.AI.EmbeddingHost != "" {
		opts = append(opts, ai.WithEmbeddingHost(cfg.AI.EmbeddingHost))
	}
	if cfg.AI.GeneratorHost != "" {
		opts = append(opts, ai.WithGeneratorHost(cfg.AI.GeneratorHost))
	}
	if cfg.AI.EmbeddingModel != "" {
		opts = append(opts, ai.WithEmbeddingModel(cfg.AI.EmbeddingModel))
	}
	if cfg.AI.GeneratorModel != "" {
		opts = append(opts, ai.WithGeneratorModel(cfg.AI.GeneratorModel))
	}
	return ai.NewConfig(opts...)
}

// Close releases the AI provider and the storage backend.
func (t *Tracker) Close() error {
	if err := t.provider.Close(); err != nil {
		t.logger.Error("error closing AI provider", "err", err)
	}
	if err := t.backend.Close(); err != nil {
		t.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}

// RecordStore exposes the rolling window and archive store.
func (t *Tracker) RecordStore() storage.RecordStore {
	return t.records
}

// VectorIndex exposes the embedding index.
func (t *Tracker) VectorIndex() storage.VectorIndex {
	return t.vectors
}

// Provider exposes the AI provider.
func (t *Tracker) Provider() ai.Provider {
	return t.provider
}

// Config returns the configuration the tracker was built with.
func (t *Tracker) Config() config.Config {
	return t.cfg
}

// NewPipeline assembles the ingestion pipeline from the configured sources,
// category keywords and admission thresholds.
func (t *Tracker) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	adapters, err := t.buildAdapters()
	if err != nil {
		return nil, err
	}

	indexer, err := search.NewIndexer(t.vectors, t.provider)
	if err != nil {
		return nil, err
	}

	keywords := t.cfg.Keywords
	if len(keywords) == 0 {
		keywords = config.DefaultKeywords()
	}
	classifier := pipeline.NewClassifier(keywords)
	filter := pipeline.NewFilter(t.cfg.Thresholds.ScoreMin, t.cfg.Thresholds.HackerNewsMin)

	opts = append([]pipeline.Option{
		pipeline.WithColdStart(coldStartDuration(t.cfg.Thresholds.ColdStartDays)),
	}, opts...)

	return pipeline.NewPipeline(t.records, indexer, adapters, classifier, filter, opts...)
}

// NewEngine builds the query engine over the tracker's index and provider.
func (t *Tracker) NewEngine(opts ...search.EngineOption) (*search.Engine, error) {
	return search.NewEngine(t.vectors, t.provider, opts...)
}

// NewExporter builds an exporter over the tracker's record store.
func (t *Tracker) NewExporter(opts ...export.Option) (*export.Exporter, error) {
	return export.NewExporter(t.records, opts...)
}

// NewScheduler wires the given runner (normally a pipeline from NewPipeline)
// to the configured cron cadence.
func (t *Tracker) NewScheduler(runner schedule.CycleRunner, opts ...schedule.Option) (*schedule.Service, error) {
	return schedule.NewService(runner, t.cfg.Scheduler.CronExpression, opts...)
}

// buildAdapters instantiates every enabled source adapter via the registry.
func (t *Tracker) buildAdapters() ([]source.Adapter, error) {
	adapters := make([]source.Adapter, 0, 4)

	if t.cfg.Sources.GitHub.Enabled {
		repos := make([]source.Repo, 0, len(t.cfg.Sources.GitHub.Repos))
		for _, r := range t.cfg.Sources.GitHub.Repos {
			repos = append(repos, source.Repo{Owner: r.Owner, Repo: r.Repo, Name: r.Name})
		}
		adapter, err := t.newAdapter("github", source.Options{
			Token: t.cfg.Sources.GitHub.Token,
			Repos: repos,
		})
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	if t.cfg.Sources.RSS.Enabled {
		adapter, err := t.newAdapter("rss", source.Options{
			Feeds: feedOptions(t.cfg.Sources.RSS.Feeds),
		})
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	if t.cfg.Sources.HackerNews.Enabled {
		adapter, err := t.newAdapter("hackernews", source.Options{
			Keywords:  t.cfg.Sources.HackerNews.Keywords,
			MinPoints: t.cfg.Thresholds.HackerNewsMin,
		})
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	if t.cfg.Sources.Arxiv.Enabled {
		adapter, err := t.newAdapter("arxiv", source.Options{
			Feeds: feedOptions(t.cfg.Sources.Arxiv.Feeds),
			TopN:  t.cfg.Sources.Arxiv.TopN,
		})
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	return adapters, nil
}

func (t *Tracker) newAdapter(name string, opts source.Options) (source.Adapter, error) {
	ctor, err := source.Get(name)
	if err != nil {
		return nil, err
	}
	adapter, err := ctor(opts)
	if err != nil {
		return nil, fmt.Errorf("building %s adapter: %w", name, err)
	}
	return adapter, nil
}

func feedOptions(feeds []config.FeedConfig) []source.Feed {
	out := make([]source.Feed, 0, len(feeds))
	for _, f := range feeds {
		out = append(out, source.Feed{URL: f.URL, Name: f.Name, Category: f.Category})
	}
	return out
}

func coldStartDuration(days int) time.Duration {
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}
