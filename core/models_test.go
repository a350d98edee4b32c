package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "https://example.com/post",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "https://blog.langchain.dev/some/deeply/nested/announcement/with/a/very/long/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("https://example.com/a")
	id2 := IDFromContent("https://example.com/b")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestIDFromURL_EquivalentForms(t *testing.T) {
	// All forms canonicalize identically, so they must share an ID.
	variants := []string{
		"https://Example.com/post/",
		"http://example.com/post",
		"https://example.com:443/post?utm_source=feed",
		"https://example.com/post#section",
	}

	first, err := IDFromURL(variants[0])
	if err != nil {
		t.Fatalf("IDFromURL(%q) error: %v", variants[0], err)
	}

	for _, v := range variants[1:] {
		id, err := IDFromURL(v)
		if err != nil {
			t.Fatalf("IDFromURL(%q) error: %v", v, err)
		}
		if id != first {
			t.Errorf("IDFromURL(%q) = %d, want %d", v, id, first)
		}
	}
}

func TestIDFromURL_Invalid(t *testing.T) {
	if _, err := IDFromURL(""); err == nil {
		t.Error("IDFromURL(\"\") expected error")
	}
	if _, err := IDFromURL("not a url"); err == nil {
		t.Error("IDFromURL(\"not a url\") expected error")
	}
}

func TestSourceType_String(t *testing.T) {
	tests := []struct {
		sourceType SourceType
		want       string
	}{
		{SourceTypeRelease, "release"},
		{SourceTypeBlog, "blog"},
		{SourceTypeForum, "forum"},
		{SourceTypePaper, "paper"},
		{SourceType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.sourceType.String(); got != tt.want {
			t.Errorf("SourceType(%d).String() = %q, want %q", tt.sourceType, got, tt.want)
		}
	}
}

func TestRecord_ArchiveMonth(t *testing.T) {
	record := &Record{
		PublishedAt: time.Date(2025, time.November, 30, 23, 45, 0, 0, time.UTC),
	}

	if got := record.ArchiveMonth(); got != "2025-11" {
		t.Errorf("ArchiveMonth() = %q, want 2025-11", got)
	}
}

func TestNewEmbeddingEntry_Snapshot(t *testing.T) {
	record := &Record{
		Id:          42,
		SourceType:  SourceTypeBlog,
		SourceName:  "LangChain Blog",
		Title:       "LangGraph 1.0",
		BodyExcerpt: "Agents, now stable.",
		URL:         "https://blog.langchain.dev/langgraph-1-0",
		PublishedAt: time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		Categories:  []string{"framework"},
		Score:       77,
	}

	vector := []float32{0.1, 0.2, 0.3}
	entry := NewEmbeddingEntry(record, vector)

	if entry.RecordId != record.Id {
		t.Errorf("RecordId = %d, want %d", entry.RecordId, record.Id)
	}
	if entry.Title != record.Title || entry.URL != record.URL {
		t.Error("entry did not snapshot title/url")
	}
	if entry.Score != record.Score {
		t.Errorf("Score = %f, want %f", entry.Score, record.Score)
	}
	if len(entry.Vector) != 3 {
		t.Errorf("Vector length = %d, want 3", len(entry.Vector))
	}
}
