package search

import (
	"github.com/halcyon/trendwatch/ai"
	"github.com/halcyon/trendwatch/core"
)

// QueryMonitor provides hooks to observe the query and answer process.
// Implement this interface to track intermediate steps during retrieval
// and generation.
type QueryMonitor interface {
	Start(question string)
	AfterQuestionEmbedding(vector []float32)
	AfterRetrieval(snippets []*core.ContextSnippet)
	BeforeGeneration(prompt string, mode ai.PromptMode)
	Finish(answer string)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterQuestionEmbedding(_ []float32)         {}
func (n *noopMonitor) AfterRetrieval(_ []*core.ContextSnippet)    {}
func (n *noopMonitor) BeforeGeneration(_ string, _ ai.PromptMode) {}
func (n *noopMonitor) Finish(_ string)                            {}
