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
	"strings"
	"time"

	"github.com/halcyon/trendwatch/core"
)

const defaultGitHubBaseURL = "https://api.github.com"

var errGitHubNotFound = errors.New("github resource not found")

func init() {
	Register("github", NewGitHubAdapter)
}

// GitHubAdapter fetches release announcements from configured repositories.
// Repository star counts serve as the popularity signal.
type GitHubAdapter struct {
	baseURL string
	token   string
	repos   []Repo
	client  *http.Client
	logger  *slog.Logger
}

// NewGitHubAdapter creates a release adapter for the configured repos.
func NewGitHubAdapter(opts Options) (Adapter, error) {
	if len(opts.Repos) == 0 {
		return nil, errors.New("github adapter: at least one repo is required")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultGitHubBaseURL
	}

	return &GitHubAdapter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   opts.Token,
		repos:   opts.Repos,
		client:  opts.httpClient(),
		logger:  slog.Default().With("component", "source-github"),
	}, nil
}

// Name identifies the adapter.
func (a *GitHubAdapter) Name() string {
	return "github"
}

type githubRepoMeta struct {
	StargazersCount int64 `json:"stargazers_count"`
}

type githubRelease struct {
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	Body        string `json:"body"`
	HTMLURL     string `json:"html_url"`
	PublishedAt string `json:"published_at"`
	CreatedAt   string `json:"created_at"`
}

// Fetch retrieves releases newer than since from every configured repo.
// Per-repo failures are logged and folded into the result's failure marker;
// the remaining repos are still fetched.
func (a *GitHubAdapter) Fetch(ctx context.Context, since time.Time) FetchResult {
	var result FetchResult

	for _, repo := range a.repos {
		records, err := a.fetchRepo(ctx, repo, since)
		if err != nil {
			a.logger.Warn("repo fetch failed", "repo", repo.Owner+"/"+repo.Repo, "err", err)
			result.Err = errors.Join(result.Err, fmt.Errorf("%s/%s: %w", repo.Owner, repo.Repo, err))
			continue
		}
		result.Records = append(result.Records, records...)
	}

	return result
}

func (a *GitHubAdapter) fetchRepo(ctx context.Context, repo Repo, since time.Time) ([]*RawRecord, error) {
	// Star count feeds the popularity signal; absence is tolerated.
	stars := core.PopularityAbsent
	var meta githubRepoMeta
	err := a.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s", a.baseURL, repo.Owner, repo.Repo), &meta)
	if err == nil {
		stars = meta.StargazersCount
	}

	var releases []githubRelease
	url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=10", a.baseURL, repo.Owner, repo.Repo)
	if err := a.getJSON(ctx, url, &releases); err != nil {
		// Repos without releases are not a failure.
		if errors.Is(err, errGitHubNotFound) {
			a.logger.Debug("no releases", "repo", repo.Owner+"/"+repo.Repo)
			return nil, nil
		}
		return nil, err
	}

	var records []*RawRecord
	for _, release := range releases {
		pubStr := release.PublishedAt
		if pubStr == "" {
			pubStr = release.CreatedAt
		}
		if pubStr == "" {
			continue
		}
		published, err := time.Parse(time.RFC3339, pubStr)
		if err != nil {
			continue
		}
		if !published.After(since) {
			continue
		}

		title := strings.Trim(fmt.Sprintf("[%s] %s: %s", repo.Name, release.TagName, release.Name), ": ")
		records = append(records, &RawRecord{
			Title:            title,
			URL:              release.HTMLURL,
			SourceName:       repo.Name + " GitHub",
			SourceType:       core.SourceTypeRelease,
			PublishedAt:      published.UTC(),
			BodyExcerpt:      makeExcerpt(release.Body),
			PopularitySignal: stars,
		})
	}

	return records, nil
}

func (a *GitHubAdapter) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if a.token != "" {
		req.Header.Set("Authorization", "token "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", errGitHubNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
