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


package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "TRENDWATCH_CONFIG"
	dataDirEnv     = "TRENDWATCH_DATA_DIR"
	githubTokenEnv = "GITHUB_TOKEN"
	aiHostEnv      = "TRENDWATCH_AI_HOST"
)

// Config holds high-level settings required across the application.
type Config struct {
	DataDir    string              `yaml:"dataDir"`
	Scheduler  SchedulerConfig     `yaml:"scheduler"`
	Thresholds ThresholdConfig     `yaml:"thresholds"`
	Sources    SourcesConfig       `yaml:"sources"`
	Keywords   map[string][]string `yaml:"keywords"`
	AI         AIConfig            `yaml:"ai"`
}

// SchedulerConfig defines when recurring ingestion cycles run.
type SchedulerConfig struct {
	CronExpression string `yaml:"cronExpression"`
}

// ThresholdConfig holds the admission gates and retention settings.
type ThresholdConfig struct {
	// ScoreMin is the minimum score for window admission.
	ScoreMin float64 `yaml:"scoreMin"`

	// HackerNewsMin is the community-points floor for forum posts.
	HackerNewsMin int `yaml:"hackerNewsMin"`

	// ColdStartDays is the lookback window for the first run.
	ColdStartDays int `yaml:"coldStartDays"`
}

// SourcesConfig groups per-adapter settings.
type SourcesConfig struct {
	GitHub     GitHubConfig     `yaml:"github"`
	RSS        RSSConfig        `yaml:"rss"`
	HackerNews HackerNewsConfig `yaml:"hackerNews"`
	Arxiv      ArxivConfig      `yaml:"arxiv"`
}

// GitHubConfig lists the repositories watched for releases.
type GitHubConfig struct {
	Enabled bool         `yaml:"enabled"`
	Token   string       `yaml:"token"`
	Repos   []RepoConfig `yaml:"repos"`
}

// RepoConfig identifies one GitHub repository.
type RepoConfig struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
	Name  string `yaml:"name"`
}

// RSSConfig lists the blog feeds to poll.
type RSSConfig struct {
	Enabled bool         `yaml:"enabled"`
	Feeds   []FeedConfig `yaml:"feeds"`
}

// FeedConfig identifies one RSS/Atom feed with an optional category hint.
type FeedConfig struct {
	URL      string `yaml:"url"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// HackerNewsConfig drives the Algolia keyword search.
type HackerNewsConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Keywords []string `yaml:"keywords"`
}

// ArxivConfig drives the paper feeds.
type ArxivConfig struct {
	Enabled bool         `yaml:"enabled"`
	Feeds   []FeedConfig `yaml:"feeds"`
	TopN    int          `yaml:"topN"`
}

// AIConfig defines how to reach the embedding and generation services.
type AIConfig struct {
	Host           string `yaml:"host"`
	EmbeddingHost  string `yaml:"embeddingHost"`
	GeneratorHost  string `yaml:"generatorHost"`
	EmbeddingModel string `yaml:"embeddingModel"`
	GeneratorModel string `yaml:"generatorModel"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// The config file path comes from TRENDWATCH_CONFIG or the path argument;
// a missing file falls back to defaults.
func Load(path string) Config {
	cfg := Default()

	if env := os.Getenv(configPathEnv); env != "" {
		path = env
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			slog.Warn("cannot read config, falling back to defaults", "path", path, "err", err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			slog.Warn("cannot parse config, falling back to defaults", "path", path, "err", err)
			cfg = Default()
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dataDirEnv); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(githubTokenEnv); v != "" {
		c.Sources.GitHub.Token = v
	}
	if v := os.Getenv(aiHostEnv); v != "" {
		c.AI.Host = v
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: dataDir is required")
	}
	if c.Thresholds.ScoreMin < 0 || c.Thresholds.ScoreMin > 100 {
		return fmt.Errorf("config: scoreMin must be within [0,100]")
	}
	if c.Thresholds.ColdStartDays <= 0 {
		return fmt.Errorf("config: coldStartDays must be positive")
	}
	if c.Sources.GitHub.Enabled && len(c.Sources.GitHub.Repos) == 0 {
		return fmt.Errorf("config: github source enabled without repos")
	}
	if c.Sources.RSS.Enabled && len(c.Sources.RSS.Feeds) == 0 {
		return fmt.Errorf("config: rss source enabled without feeds")
	}
	return nil
}
