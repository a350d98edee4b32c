package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/halcyon/trendwatch/core"
)

// DefaultArxivFeeds cover the AI/ML categories tracked by default.
var DefaultArxivFeeds = []Feed{
	{URL: "https://arxiv.org/rss/cs.AI", Name: "arXiv cs.AI"},
	{URL: "https://arxiv.org/rss/cs.LG", Name: "arXiv cs.LG"},
	{URL: "https://arxiv.org/rss/cs.CL", Name: "arXiv cs.CL"},
}

func init() {
	Register("arxiv", NewArxivAdapter)
}

// ArxivAdapter polls arXiv category RSS feeds for new papers.
// The total yield is capped at TopN, split evenly across feeds.
type ArxivAdapter struct {
	feeds  []Feed
	topN   int
	client *http.Client
	logger *slog.Logger
}

// NewArxivAdapter creates a paper adapter over arXiv RSS feeds.
func NewArxivAdapter(opts Options) (Adapter, error) {
	feeds := opts.Feeds
	if len(feeds) == 0 {
		feeds = DefaultArxivFeeds
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = 20
	}

	return &ArxivAdapter{
		feeds:  feeds,
		topN:   topN,
		client: opts.httpClient(),
		logger: slog.Default().With("component", "source-arxiv"),
	}, nil
}

// Name identifies the adapter.
func (a *ArxivAdapter) Name() string {
	return "arxiv"
}

// Fetch polls every feed, taking at most topN/len(feeds) papers from each
// and topN overall. Cross-feed duplicates are dropped by link.
func (a *ArxivAdapter) Fetch(ctx context.Context, since time.Time) FetchResult {
	var result FetchResult
	seenLinks := make(map[string]struct{})

	perFeed := a.topN / len(a.feeds)
	if perFeed < 1 {
		perFeed = 1
	}

	for _, feed := range a.feeds {
		items, err := fetchFeed(ctx, a.client, feed.URL)
		if err != nil {
			a.logger.Warn("feed fetch failed", "feed", feed.URL, "err", err)
			result.Err = errors.Join(result.Err, fmt.Errorf("%s: %w", feed.Name, err))
			continue
		}

		taken := 0
		for _, item := range items {
			if taken >= perFeed {
				break
			}
			if _, ok := seenLinks[item.Link]; ok {
				continue
			}
			if !item.Published.After(since) {
				continue
			}
			seenLinks[item.Link] = struct{}{}
			taken++

			result.Records = append(result.Records, &RawRecord{
				Title:            item.Title,
				URL:              item.Link,
				SourceName:       feed.Name,
				SourceType:       core.SourceTypePaper,
				PublishedAt:      item.Published,
				BodyExcerpt:      makeExcerpt(item.Summary),
				PopularitySignal: core.PopularityAbsent,
				CategoryHint:     "paper",
			})
		}
	}

	if len(result.Records) > a.topN {
		result.Records = result.Records[:a.topN]
	}
	return result
}
