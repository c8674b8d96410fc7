package ai

import (
	"fmt"

	"github.com/kiranshivaraju/fieldplanner/internal/ai/anthropic"
	"github.com/kiranshivaraju/fieldplanner/internal/ai/ollama"
	"github.com/kiranshivaraju/fieldplanner/internal/ai/openai"
	"github.com/kiranshivaraju/fieldplanner/internal/config"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// NewProvider constructs the appropriate extraction provider based on config.
// Called once at server startup.
func NewProvider(cfg config.AIConfig) (models.Extractor, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of ollama, openai, anthropic", cfg.Provider)
	}
}
