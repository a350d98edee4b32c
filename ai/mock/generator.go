package mock

import (
	"context"
	"fmt"

	"github.com/halcyon/trendwatch/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via a function field.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, prompt string, maxTokens int, mode ai.PromptMode) (string, error)

	callCount int

	// LastPrompt holds the prompt from the most recent Generate call,
	// for test assertions on prompt construction.
	LastPrompt string

	// LastMode holds the mode from the most recent Generate call.
	LastMode ai.PromptMode
}

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a canned answer echoing the prompt length and mode.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxTokens int, mode ai.PromptMode) (string, error) {
	m.callCount++
	m.LastPrompt = prompt
	m.LastMode = mode

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, maxTokens, mode)
	}

	return fmt.Sprintf("mock answer (%s mode, prompt %d chars)", mode.String(), len(prompt)), nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
	m.LastPrompt = ""
	m.LastMode = ai.ModeStandard
}
