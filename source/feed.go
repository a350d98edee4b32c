package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// feedItem is one entry from an RSS 2.0 or Atom feed, reduced to the
// fields the adapters use.
type feedItem struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
}

type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type atomDocument struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Links     []atomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Content   string     `xml:"content"`
	Published string     `xml:"published"`
	Updated   string     `xml:"updated"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// feedTimeFormats are tried in order when parsing feed timestamps.
var feedTimeFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
}

// parseFeedTime parses a feed timestamp in any of the common formats.
func parseFeedTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, format := range feedTimeFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseFeed decodes an RSS 2.0 or Atom document. Entries without a link or
// a parsable timestamp are dropped.
func parseFeed(data []byte) ([]feedItem, error) {
	// The XMLName field makes the decoder reject non-<rss> roots, so a
	// clean unmarshal is decisive even for a feed with no items.
	var rss rssDocument
	if err := xml.Unmarshal(data, &rss); err == nil {
		items := make([]feedItem, 0, len(rss.Channel.Items))
		for _, item := range rss.Channel.Items {
			published, ok := parseFeedTime(item.PubDate)
			if !ok || item.Link == "" {
				continue
			}
			items = append(items, feedItem{
				Title:     strings.TrimSpace(item.Title),
				Link:      strings.TrimSpace(item.Link),
				Summary:   item.Description,
				Published: published,
			})
		}
		return items, nil
	}

	var atom atomDocument
	if err := xml.Unmarshal(data, &atom); err != nil {
		return nil, fmt.Errorf("unrecognized feed format: %w", err)
	}

	items := make([]feedItem, 0, len(atom.Entries))
	for _, entry := range atom.Entries {
		published, ok := parseFeedTime(entry.Published)
		if !ok {
			published, ok = parseFeedTime(entry.Updated)
		}
		link := atomEntryLink(entry)
		if !ok || link == "" {
			continue
		}
		summary := entry.Summary
		if summary == "" {
			summary = entry.Content
		}
		items = append(items, feedItem{
			Title:     strings.TrimSpace(entry.Title),
			Link:      link,
			Summary:   summary,
			Published: published,
		})
	}
	return items, nil
}

// atomEntryLink picks the alternate link, falling back to the first.
func atomEntryLink(entry atomEntry) string {
	for _, link := range entry.Links {
		if link.Rel == "" || link.Rel == "alternate" {
			return strings.TrimSpace(link.Href)
		}
	}
	if len(entry.Links) > 0 {
		return strings.TrimSpace(entry.Links[0].Href)
	}
	return ""
}

// fetchFeed downloads and parses one feed URL.
func fetchFeed(ctx context.Context, client *http.Client, url string) ([]feedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseFeed(data)
}
