package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/fieldplanner/internal/ai/llm"
	"github.com/kiranshivaraju/fieldplanner/internal/config"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// Provider implements models.Extractor using the chat completions API.
// Any OpenAI-compatible endpoint works through BaseURL.
type Provider struct {
	cfg    config.OpenAIConfig
	client *http.Client
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Provider{cfg: cfg, client: &http.Client{}}
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) Extract(ctx context.Context, req models.ExtractionRequest) (models.ExtractionResult, error) {
	if p.cfg.APIKey == "" {
		return models.ExtractionResult{}, fmt.Errorf("%w: OPENAI_API_KEY is not set", llm.ErrProviderUnavailable)
	}

	content := []contentPart{{Type: "text", Text: llm.UserInstruction}}
	for _, img := range req.Images {
		content = append(content, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: llm.DataURL(img)},
		})
	}

	payload := chatRequest{
		Model: p.cfg.Model,
		Messages: []message{
			{Role: "system", Content: llm.ExtractionPrompt},
			{Role: "user", Content: content},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + p.cfg.APIKey}
	if err := llm.PostJSON(ctx, p.client, p.cfg.BaseURL+"/chat/completions", headers, payload, &resp); err != nil {
		return models.ExtractionResult{}, err
	}
	if len(resp.Choices) == 0 {
		return models.ExtractionResult{}, fmt.Errorf("%w: no choices", llm.ErrInvalidResponse)
	}
	return llm.ParseOutput(resp.Choices[0].Message.Content)
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

var _ models.Extractor = (*Provider)(nil)
