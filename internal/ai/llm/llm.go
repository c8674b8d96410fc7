// Package llm holds the plumbing shared by the extraction providers: the
// prompt, output parsing, and JSON-over-HTTP calls.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 700

// PostJSON sends payload as JSON to url and decodes a 2xx response into out.
// Transport failures and non-2xx statuses wrap ErrProviderUnavailable;
// deadline expiry wraps ErrInferenceTimeout.
func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, msg)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

// ParseOutput decodes model text into an ExtractionResult. The JSON may be
// wrapped in a Markdown code fence or surrounded by prose. An empty dataTable
// is valid and yields a draft with no jobs.
func ParseOutput(text string) (models.ExtractionResult, error) {
	s := strings.TrimSpace(text)
	if start := strings.Index(s, "```"); start >= 0 {
		s = s[start+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	if i, j := strings.Index(s, "{"), strings.LastIndex(s, "}"); i >= 0 && j > i {
		s = s[i : j+1]
	}

	var out models.ExtractionResult
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return models.ExtractionResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out.Notifications == nil {
		out.Notifications = []string{}
	}
	return out, nil
}

// Base64 returns the standard base64 encoding of an image.
func Base64(img models.Image) string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURL returns img as a data: URL.
func DataURL(img models.Image) string {
	return "data:" + img.MIME + ";base64," + Base64(img)
}
