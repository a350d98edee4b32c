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


package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/halcyon/trendwatch/core"
)

const defaultAlgoliaBaseURL = "https://hn.algolia.com/api/v1"

// DefaultKeywords seed the Hacker News search when none are configured.
var DefaultKeywords = []string{
	"LangChain", "LlamaIndex", "RAG", "AI Agent",
	"LLM", "DeepSeek", "MCP", "Claude", "GPT",
}

func init() {
	Register("hackernews", NewHackerNewsAdapter)
}

// HackerNewsAdapter searches the Algolia HN API for high-scoring stories
// matching a keyword list. Story points serve as the popularity signal.
type HackerNewsAdapter struct {
	baseURL   string
	keywords  []string
	minPoints int
	client    *http.Client
	logger    *slog.Logger
}

// NewHackerNewsAdapter creates a forum adapter over the Algolia search API.
func NewHackerNewsAdapter(opts Options) (Adapter, error) {
	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	minPoints := opts.MinPoints
	if minPoints <= 0 {
		minPoints = 50
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultAlgoliaBaseURL
	}

	return &HackerNewsAdapter{
		baseURL:   baseURL,
		keywords:  keywords,
		minPoints: minPoints,
		client:    opts.httpClient(),
		logger:    slog.Default().With("component", "source-hackernews"),
	}, nil
}

// Name identifies the adapter.
func (a *HackerNewsAdapter) Name() string {
	return "hackernews"
}

type algoliaResponse struct {
	Hits []algoliaHit `json:"hits"`
}

type algoliaHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Points      int64  `json:"points"`
	CreatedAtI  int64  `json:"created_at_i"`
	NumComments int64  `json:"num_comments"`
}

// Fetch searches every keyword, deduplicating stories across keyword
// overlaps by story ID. Only stories at or above the points floor are
// requested from the API.
func (a *HackerNewsAdapter) Fetch(ctx context.Context, since time.Time) FetchResult {
	var result FetchResult
	seenStories := make(map[string]struct{})

	for _, keyword := range a.keywords {
		hits, err := a.search(ctx, keyword, since)
		if err != nil {
			a.logger.Warn("keyword search failed", "keyword", keyword, "err", err)
			result.Err = errors.Join(result.Err, fmt.Errorf("%s: %w", keyword, err))
			continue
		}

		for _, hit := range hits {
			if hit.ObjectID == "" {
				continue
			}
			if _, ok := seenStories[hit.ObjectID]; ok {
				continue
			}
			seenStories[hit.ObjectID] = struct{}{}

			storyURL := hit.URL
			if storyURL == "" {
				storyURL = "https://news.ycombinator.com/item?id=" + hit.ObjectID
			}

			result.Records = append(result.Records, &RawRecord{
				Title:            hit.Title,
				URL:              storyURL,
				SourceName:       "Hacker News",
				SourceType:       core.SourceTypeForum,
				PublishedAt:      time.Unix(hit.CreatedAtI, 0).UTC(),
				PopularitySignal: hit.Points,
			})
		}
	}

	return result
}

func (a *HackerNewsAdapter) search(ctx context.Context, keyword string, since time.Time) ([]algoliaHit, error) {
	numericFilters := fmt.Sprintf("points>=%d", a.minPoints)
	if !since.IsZero() {
		numericFilters += fmt.Sprintf(",created_at_i>=%d", since.Unix())
	}

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("tags", "story")
	params.Set("numericFilters", numericFilters)
	params.Set("hitsPerPage", "15")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from algolia", resp.StatusCode)
	}

	var decoded algoliaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded.Hits, nil
}
