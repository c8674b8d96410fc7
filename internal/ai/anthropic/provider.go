package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/fieldplanner/internal/ai/llm"
	"github.com/kiranshivaraju/fieldplanner/internal/config"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

const (
	apiVersion = "2023-06-01"
	maxTokens  = 4096
)

// Provider implements models.Extractor using the Anthropic messages API.
type Provider struct {
	cfg    config.AnthropicConfig
	client *http.Client
}

func NewProvider(cfg config.AnthropicConfig) *Provider {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Provider{cfg: cfg, client: &http.Client{}}
}

func (p *Provider) Name() string { return "anthropic" }

func (p *Provider) Extract(ctx context.Context, req models.ExtractionRequest) (models.ExtractionResult, error) {
	if p.cfg.APIKey == "" {
		return models.ExtractionResult{}, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", llm.ErrProviderUnavailable)
	}

	var content []block
	for _, img := range req.Images {
		content = append(content, block{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: img.MIME,
				Data:      llm.Base64(img),
			},
		})
	}
	content = append(content, block{Type: "text", Text: llm.UserInstruction})

	payload := messagesRequest{
		Model:     p.cfg.Model,
		MaxTokens: maxTokens,
		System:    llm.ExtractionPrompt,
		Messages:  []message{{Role: "user", Content: content}},
	}
	headers := map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": apiVersion,
	}

	var resp messagesResponse
	if err := llm.PostJSON(ctx, p.client, p.cfg.BaseURL+"/v1/messages", headers, payload, &resp); err != nil {
		return models.ExtractionResult{}, err
	}

	var text strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			text.WriteString(b.Text)
		}
	}
	if text.Len() == 0 {
		return models.ExtractionResult{}, fmt.Errorf("%w: no text content", llm.ErrInvalidResponse)
	}
	return llm.ParseOutput(text.String())
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string  `json:"role"`
	Content []block `json:"content"`
}

type block struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content []block `json:"content"`
}

var _ models.Extractor = (*Provider)(nil)
