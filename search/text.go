package search

import (
	"fmt"
	"strings"

	"github.com/halcyon/trendwatch/core"
)

// Character budgets for prompt assembly. Local models have tight context
// windows, so snippets are truncated individually and the context section
// stops growing once the total budget is spent.
const (
	snippetCharBudget = 480
	contextCharBudget = 6000
)

// buildPrompt assembles the generation prompt: the question followed by a
// numbered CONTEXT section of retrieved snippets, newest-evidence first as
// ranked by the index.
func buildPrompt(question string, snippets []*core.ContextSnippet) string {
	var b strings.Builder
	b.WriteString("QUESTION:\n")
	b.WriteString(question)
	b.WriteString("\n\nCONTEXT:\n")

	used := 0
	for n, snippet := range snippets {
		block := formatSnippet(n+1, snippet)
		if used+len(block) > contextCharBudget {
			break
		}
		b.WriteString(block)
		used += len(block)
	}

	return b.String()
}

// formatSnippet renders one retrieved entry as a numbered context block.
func formatSnippet(rank int, snippet *core.ContextSnippet) string {
	entry := snippet.Entry
	header := fmt.Sprintf("[%d] %s (%s, %s, score %.1f)\n",
		rank,
		entry.Title,
		entry.SourceName,
		entry.PublishedAt.UTC().Format("2006-01-02"),
		entry.Score,
	)
	excerpt := truncateAtWord(entry.Excerpt, snippetCharBudget)
	if excerpt == "" {
		return header + "\n"
	}
	return header + excerpt + "\n\n"
}

// truncateAtWord cuts text to at most limit runes, backing up to the
// previous word boundary so no word or multi-byte character is split.
func truncateAtWord(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ") + "…"
}
