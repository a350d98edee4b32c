package ai

import "fmt"

// PromptMode selects the reasoning style used when generating answers.
type PromptMode int

const (
	// ModeStandard produces concise answers grounded in the supplied context.
	ModeStandard PromptMode = iota

	// ModeDeep produces longer analytical answers that compare and
	// cross-reference the supplied context before concluding.
	ModeDeep
)

// String returns the mode name as used in configuration and CLI flags.
func (m PromptMode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeDeep:
		return "deep"
	default:
		return "unknown"
	}
}

// ParsePromptMode converts a mode name into a PromptMode.
func ParsePromptMode(name string) (PromptMode, error) {
	switch name {
	case "standard", "":
		return ModeStandard, nil
	case "deep":
		return ModeDeep, nil
	default:
		return ModeStandard, fmt.Errorf("unknown prompt mode %q", name)
	}
}
