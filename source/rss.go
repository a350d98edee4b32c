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

func init() {
	Register("rss", NewRSSAdapter)
}

// RSSAdapter polls configured RSS/Atom feeds, typically vendor blogs.
type RSSAdapter struct {
	feeds  []Feed
	client *http.Client
	logger *slog.Logger
}

// NewRSSAdapter creates a blog adapter for the configured feeds.
func NewRSSAdapter(opts Options) (Adapter, error) {
	if len(opts.Feeds) == 0 {
		return nil, errors.New("rss adapter: at least one feed is required")
	}

	return &RSSAdapter{
		feeds:  opts.Feeds,
		client: opts.httpClient(),
		logger: slog.Default().With("component", "source-rss"),
	}, nil
}

// Name identifies the adapter.
func (a *RSSAdapter) Name() string {
	return "rss"
}

// Fetch polls every configured feed for entries newer than since.
// Per-feed failures are logged and folded into the result's failure marker.
func (a *RSSAdapter) Fetch(ctx context.Context, since time.Time) FetchResult {
	var result FetchResult

	for _, feed := range a.feeds {
		items, err := fetchFeed(ctx, a.client, feed.URL)
		if err != nil {
			a.logger.Warn("feed fetch failed", "feed", feed.URL, "err", err)
			result.Err = errors.Join(result.Err, fmt.Errorf("%s: %w", feed.Name, err))
			continue
		}

		for _, item := range items {
			if !item.Published.After(since) {
				continue
			}
			result.Records = append(result.Records, &RawRecord{
				Title:            item.Title,
				URL:              item.Link,
				SourceName:       feed.Name,
				SourceType:       core.SourceTypeBlog,
				PublishedAt:      item.Published,
				BodyExcerpt:      makeExcerpt(item.Summary),
				PopularitySignal: core.PopularityAbsent,
				CategoryHint:     feed.Category,
			})
		}
	}

	return result
}
