package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/fieldplanner/internal/ai/llm"
	"github.com/kiranshivaraju/fieldplanner/internal/config"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

func TestExtract_NoAPIKey(t *testing.T) {
	p := NewProvider(config.OpenAIConfig{APIKey: "  ", BaseURL: "http://127.0.0.1:1"})

	_, err := p.Extract(context.Background(), models.ExtractionRequest{})
	assert.ErrorIs(t, err, llm.ErrProviderUnavailable)
}

func TestExtract_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		if assert.Len(t, req.Messages, 2) {
			parts, _ := req.Messages[1].Content.([]any)
			assert.Len(t, parts, 2)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]string{
					"content": "```json\n{\"dataTable\":\"Monday, Mar 3\\n|a|\",\"notifications\":[\"{{TIME_SLOT}}\"]}\n```",
				},
			}},
		})
	}))
	defer ts.Close()

	p := NewProvider(config.OpenAIConfig{APIKey: "sk-test", BaseURL: ts.URL + "/v1/", Model: "gpt-4o"})
	res, err := p.Extract(context.Background(), models.ExtractionRequest{
		Images: []models.Image{{Data: []byte{1, 2}, MIME: "image/png"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Monday, Mar 3\n|a|", res.DataTable)
	assert.Equal(t, []string{"{{TIME_SLOT}}"}, res.Notifications)
}

func TestExtract_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	p := NewProvider(config.OpenAIConfig{APIKey: "sk-test", BaseURL: ts.URL})
	_, err := p.Extract(context.Background(), models.ExtractionRequest{})
	assert.ErrorIs(t, err, llm.ErrInvalidResponse)
}

func TestName(t *testing.T) {
	assert.Equal(t, "openai", NewProvider(config.OpenAIConfig{}).Name())
}
