package ai

import "github.com/kiranshivaraju/fieldplanner/internal/ai/llm"

// Provider errors, shared with the provider packages.
var (
	ErrProviderUnavailable = llm.ErrProviderUnavailable
	ErrInferenceTimeout    = llm.ErrInferenceTimeout
	ErrInvalidResponse     = llm.ErrInvalidResponse
)
