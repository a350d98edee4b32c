package source

import (
	"context"
	"net/http"
	"time"

	"github.com/halcyon/trendwatch/core"
)

// RawRecord is an unvalidated signal as fetched from an upstream source,
// before normalization assigns it an identity.
type RawRecord struct {
	Title            string
	URL              string
	SourceName       string
	SourceType       core.SourceType
	PublishedAt      time.Time
	BodyExcerpt      string
	PopularitySignal int64
	CategoryHint     string
}

// FetchResult carries whatever an adapter managed to fetch. A non-nil Err
// marks a partial failure; Records may still hold usable data. Adapters
// never fail the whole cycle over one unreachable upstream.
type FetchResult struct {
	Records []*RawRecord
	Err     error
}

// Adapter fetches raw records from one upstream source.
// Implementations must be safe for use from a single goroutine at a time;
// the cycle driver runs each adapter on its own worker.
type Adapter interface {
	// Name identifies the adapter for logging and failure reporting.
	Name() string

	// Fetch retrieves records published after since.
	// Network failures are reported through FetchResult.Err, not panics.
	Fetch(ctx context.Context, since time.Time) FetchResult
}

// Options holds adapter construction settings. Each adapter reads the
// fields relevant to it and ignores the rest.
type Options struct {
	// Name overrides the adapter's default display name.
	Name string

	// BaseURL overrides the upstream API root, primarily for tests.
	BaseURL string

	// HTTPClient is used for all upstream calls. Defaults to a client
	// with a 15 second timeout.
	HTTPClient *http.Client

	// Token authenticates against upstreams that support it (GitHub).
	Token string

	// Repos lists GitHub repositories to watch for releases.
	Repos []Repo

	// Feeds lists RSS/Atom feeds to poll.
	Feeds []Feed

	// Keywords drives keyword-search upstreams (Hacker News).
	Keywords []string

	// MinPoints is the community-score floor for forum posts.
	MinPoints int

	// TopN caps the number of records returned by paper feeds.
	TopN int
}

// Repo identifies one GitHub repository.
type Repo struct {
	Owner string
	Repo  string
	Name  string
}

// Feed identifies one RSS/Atom feed with an optional category hint.
type Feed struct {
	URL      string
	Name     string
	Category string
}

// httpClient returns the configured client or a default one.
func (o *Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
