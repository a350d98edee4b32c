package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arxivFeedXML(n int) string {
	body := `<?xml version="1.0"?><rss version="2.0"><channel>`
	for i := 0; i < n; i++ {
		body += fmt.Sprintf(`<item>
			<title>Paper %d</title>
			<link>https://arxiv.org/abs/2506.%05d</link>
			<description>&lt;p&gt;Abstract %d&lt;/p&gt;</description>
			<pubDate>Mon, 02 Jun 2025 10:00:00 +0000</pubDate>
		</item>`, i, i, i)
	}
	return body + `</channel></rss>`
}

func TestArxivAdapter_PerFeedCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, arxivFeedXML(10))
	}))
	defer server.Close()

	adapter, err := NewArxivAdapter(Options{
		Feeds: []Feed{
			{URL: server.URL + "/cs.AI", Name: "arXiv cs.AI"},
			{URL: server.URL + "/cs.LG", Name: "arXiv cs.LG"},
		},
		TopN: 6,
	})
	require.NoError(t, err)

	result := adapter.Fetch(context.Background(), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, result.Err)

	// 6 total, 3 per feed; identical links across feeds deduplicate,
	// so only the first feed's three unique papers survive.
	assert.Len(t, result.Records, 3)
	for _, record := range result.Records {
		assert.Equal(t, core.SourceTypePaper, record.SourceType)
		assert.Equal(t, "paper", record.CategoryHint)
	}
}

func TestArxivAdapter_SinceFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, arxivFeedXML(3))
	}))
	defer server.Close()

	adapter, err := NewArxivAdapter(Options{
		Feeds: []Feed{{URL: server.URL, Name: "arXiv cs.AI"}},
	})
	require.NoError(t, err)

	// Everything in the feed predates since.
	result := adapter.Fetch(context.Background(), time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, result.Err)
	assert.Empty(t, result.Records)
}

func TestRSSAdapter_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel>
			<item>
				<title>Vendor ships v2</title>
				<link>https://blog.example.com/v2</link>
				<description>&lt;p&gt;Details &lt;b&gt;inside&lt;/b&gt;&lt;/p&gt;</description>
				<pubDate>Mon, 02 Jun 2025 10:00:00 +0000</pubDate>
			</item>
		</channel></rss>`)
	}))
	defer server.Close()

	adapter, err := NewRSSAdapter(Options{
		Feeds: []Feed{{URL: server.URL, Name: "Vendor Blog", Category: "framework"}},
	})
	require.NoError(t, err)

	result := adapter.Fetch(context.Background(), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, result.Err)
	require.Len(t, result.Records, 1)

	record := result.Records[0]
	assert.Equal(t, "Vendor ships v2", record.Title)
	assert.Equal(t, core.SourceTypeBlog, record.SourceType)
	assert.Equal(t, "framework", record.CategoryHint)
	assert.Equal(t, "Details inside", record.BodyExcerpt)
	assert.Equal(t, core.PopularityAbsent, record.PopularitySignal)
}

func TestRSSAdapter_DeadFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	adapter, err := NewRSSAdapter(Options{
		Feeds: []Feed{{URL: server.URL, Name: "Dead Blog"}},
	})
	require.NoError(t, err)

	result := adapter.Fetch(context.Background(), time.Time{})
	assert.Error(t, result.Err)
	assert.Empty(t, result.Records)
}
