package ollama

import (
	"context"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/fieldplanner/internal/ai/llm"
	"github.com/kiranshivaraju/fieldplanner/internal/config"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// Provider implements models.Extractor using a local Ollama server.
type Provider struct {
	cfg    config.OllamaConfig
	client *http.Client
}

func NewProvider(cfg config.OllamaConfig) *Provider {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Provider{cfg: cfg, client: &http.Client{}}
}

func (p *Provider) Name() string { return "ollama" }

func (p *Provider) Extract(ctx context.Context, req models.ExtractionRequest) (models.ExtractionResult, error) {
	images := make([]string, len(req.Images))
	for i, img := range req.Images {
		images[i] = llm.Base64(img)
	}

	payload := chatRequest{
		Model:  p.cfg.Model,
		Stream: false,
		Format: "json",
		Messages: []message{
			{Role: "system", Content: llm.ExtractionPrompt},
			{Role: "user", Content: llm.UserInstruction, Images: images},
		},
	}

	var resp chatResponse
	if err := llm.PostJSON(ctx, p.client, p.cfg.BaseURL+"/api/chat", nil, payload, &resp); err != nil {
		return models.ExtractionResult{}, err
	}
	return llm.ParseOutput(resp.Message.Content)
}

type chatRequest struct {
	Model    string    `json:"model"`
	Stream   bool      `json:"stream"`
	Format   string    `json:"format,omitempty"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatResponse struct {
	Message message `json:"message"`
}

var _ models.Extractor = (*Provider)(nil)
