package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// excerptLimit caps the stored body excerpt length.
const excerptLimit = 500

// stripHTML reduces HTML markup to whitespace-normalized plain text.
// Malformed markup degrades to whatever text can be salvaged.
func stripHTML(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return strings.TrimSpace(markup)
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// makeExcerpt strips markup and truncates to the excerpt limit.
// Truncation counts runes so a multi-byte character is never split.
func makeExcerpt(markup string) string {
	text := stripHTML(markup)
	if runes := []rune(text); len(runes) > excerptLimit {
		text = string(runes[:excerptLimit])
	}
	return text
}
