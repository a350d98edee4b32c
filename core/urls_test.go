package core

import "testing"

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases scheme and host",
			in:   "HTTPS://Blog.LangChain.dev/Post",
			want: "https://blog.langchain.dev/Post",
		},
		{
			name: "coerces http to https",
			in:   "http://example.com/a",
			want: "https://example.com/a",
		},
		{
			name: "strips trailing slash",
			in:   "https://example.com/a/",
			want: "https://example.com/a",
		},
		{
			name: "strips default https port",
			in:   "https://example.com:443/a",
			want: "https://example.com/a",
		},
		{
			name: "strips default http port",
			in:   "http://example.com:80/a",
			want: "https://example.com/a",
		},
		{
			name: "drops utm parameters",
			in:   "https://example.com/a?utm_source=rss&utm_medium=feed&id=7",
			want: "https://example.com/a?id=7",
		},
		{
			name: "drops ref and fbclid",
			in:   "https://example.com/a?ref=hn&fbclid=xyz",
			want: "https://example.com/a",
		},
		{
			name: "drops fragment",
			in:   "https://example.com/a#comments",
			want: "https://example.com/a",
		},
		{
			name: "keeps meaningful query parameters",
			in:   "https://news.ycombinator.com/item?id=39001234",
			want: "https://news.ycombinator.com/item?id=39001234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalURL(tt.in)
			if err != nil {
				t.Fatalf("CanonicalURL(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalURL_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "/relative/path", "%%%"} {
		if _, err := CanonicalURL(in); err == nil {
			t.Errorf("CanonicalURL(%q) expected error", in)
		}
	}
}

func TestCanonicalURL_Idempotent(t *testing.T) {
	in := "http://Example.com:80/post/?utm_campaign=x&page=2#top"

	once, err := CanonicalURL(in)
	if err != nil {
		t.Fatalf("CanonicalURL error: %v", err)
	}
	twice, err := CanonicalURL(once)
	if err != nil {
		t.Fatalf("CanonicalURL error: %v", err)
	}
	if once != twice {
		t.Errorf("canonicalization not idempotent: %q vs %q", once, twice)
	}
}
