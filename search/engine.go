package search

import (
	"context"
	"log/slog"
	"sync"

	"github.com/halcyon/trendwatch/ai"
	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
)

// SessionState tracks where an Engine is in its query lifecycle.
type SessionState int

const (
	// StateIdle means no query is in flight.
	StateIdle SessionState = iota
	// StateRetrieving means the engine is embedding the question and
	// searching the index.
	StateRetrieving
	// StateGenerating means the engine is waiting on the generator.
	StateGenerating
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRetrieving:
		return "retrieving"
	case StateGenerating:
		return "generating"
	default:
		return "unknown"
	}
}

const (
	// defaultTopK is the number of context snippets retrieved per answer.
	defaultTopK = 8
	// defaultMaxTokens bounds the completion length; 0 lets the generator
	// apply its configured default.
	defaultMaxTokens = 0
)

// Engine answers questions about tracked signals by retrieving the most
// similar indexed records and handing them to a generator as context.
type Engine struct {
	index     storage.VectorIndex
	embedder  ai.Embedder
	generator ai.Generator
	topK      int
	maxTokens int
	logger    *slog.Logger

	mu    sync.Mutex
	state SessionState
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithTopK sets how many context snippets an answer draws on.
// Default is 8.
func WithTopK(k int) EngineOption {
	return func(e *Engine) error {
		if k > 0 {
			e.topK = k
		}
		return nil
	}
}

// WithMaxTokens bounds the generator completion length.
func WithMaxTokens(maxTokens int) EngineOption {
	return func(e *Engine) error {
		e.maxTokens = maxTokens
		return nil
	}
}

// WithEngineLogger sets a custom logger.
// Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a new query engine.
func NewEngine(index storage.VectorIndex, provider ai.Provider, opts ...EngineOption) (*Engine, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		index:     index,
		embedder:  provider.Embedder(),
		generator: provider.Generator(),
		topK:      defaultTopK,
		maxTokens: defaultMaxTokens,
		logger:    slog.Default().With("component", "engine"),
		state:     StateIdle,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// State reports the engine's current session state.
func (e *Engine) State() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s SessionState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Query embeds the question and returns up to k indexed entries ranked by
// cosine similarity descending, ties broken by publication recency.
// Querying an empty index returns a RetrievalError wrapping ErrIndexEmpty.
func (e *Engine) Query(ctx context.Context, question string, k int) ([]*core.ContextSnippet, error) {
	return e.QueryWithMonitor(ctx, question, k, nil)
}

// QueryWithMonitor is Query with per-stage monitoring callbacks.
func (e *Engine) QueryWithMonitor(ctx context.Context, question string, k int, monitor QueryMonitor) ([]*core.ContextSnippet, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if question == "" {
		return nil, &RetrievalError{Question: question, Err: ErrEmptyQuestion}
	}

	e.setState(StateRetrieving)
	defer e.setState(StateIdle)

	monitor.Start(question)

	snippets, err := e.retrieve(ctx, question, k, monitor)
	if err != nil {
		return nil, err
	}
	return snippets, nil
}

// retrieve runs the retrieval stage. The caller owns the state transitions.
func (e *Engine) retrieve(ctx context.Context, question string, k int, monitor QueryMonitor) ([]*core.ContextSnippet, error) {
	count, err := e.index.Count(ctx)
	if err != nil {
		e.logger.Error("error counting index entries", "err", err)
		return nil, &RetrievalError{Question: question, Err: err}
	}
	if count == 0 {
		return nil, &RetrievalError{Question: question, Err: ErrIndexEmpty}
	}

	vector, err := e.embedder.EmbedText(ctx, question)
	if err != nil {
		e.logger.Error("error embedding question", "err", err)
		return nil, &RetrievalError{Question: question, Err: err}
	}
	monitor.AfterQuestionEmbedding(vector)

	snippets, err := e.index.Nearest(ctx, vector, k)
	if err != nil {
		e.logger.Error("error searching index", "err", err)
		return nil, &RetrievalError{Question: question, Err: err}
	}
	monitor.AfterRetrieval(snippets)

	e.logger.Debug("retrieved context", "question", question, "hits", len(snippets))
	return snippets, nil
}

// Answer retrieves the top-k context for the question and asks the
// generator for an answer grounded in it. Generation failures are returned
// as a GenerationError carrying the model error verbatim; no answer is
// fabricated on failure.
func (e *Engine) Answer(ctx context.Context, question string, mode ai.PromptMode) (string, error) {
	return e.AnswerWithMonitor(ctx, question, mode, nil)
}

// AnswerWithMonitor is Answer with per-stage monitoring callbacks.
func (e *Engine) AnswerWithMonitor(ctx context.Context, question string, mode ai.PromptMode, monitor QueryMonitor) (string, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if question == "" {
		return "", &RetrievalError{Question: question, Err: ErrEmptyQuestion}
	}

	monitor.Start(question)

	e.setState(StateRetrieving)
	snippets, err := e.retrieve(ctx, question, e.topK, monitor)
	if err != nil {
		e.setState(StateIdle)
		return "", err
	}

	prompt := buildPrompt(question, snippets)
	monitor.BeforeGeneration(prompt, mode)

	e.setState(StateGenerating)
	answer, err := e.generator.Generate(ctx, prompt, e.maxTokens, mode)
	e.setState(StateIdle)
	if err != nil {
		e.logger.Error("error generating answer", "err", err)
		return "", &GenerationError{Question: question, Err: err}
	}

	monitor.Finish(answer)
	return answer, nil
}
