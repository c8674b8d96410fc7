package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

func TestParseOutput(t *testing.T) {
	want := models.ExtractionResult{
		DataTable:     "Thursday, Nov 13\n|a|b|",
		Notifications: []string{"Hi {{TIME_SLOT}}"},
	}
	body := `{"dataTable":"Thursday, Nov 13\n|a|b|","notifications":["Hi {{TIME_SLOT}}"]}`

	tests := []struct {
		name string
		text string
	}{
		{"bare", body},
		{"json fence", "```json\n" + body + "\n```"},
		{"plain fence", "```\n" + body + "\n```"},
		{"surrounding prose", "Here you go:\n" + body + "\nLet me know."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutput(tt.text)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseOutput_MissingNotifications(t *testing.T) {
	got, err := ParseOutput(`{"dataTable":"x|y"}`)
	require.NoError(t, err)
	assert.NotNil(t, got.Notifications)
	assert.Empty(t, got.Notifications)
}

func TestParseOutput_EmptyTable(t *testing.T) {
	got, err := ParseOutput(`{"dataTable":"","notifications":[]}`)
	require.NoError(t, err)
	assert.Empty(t, got.DataTable)
	assert.Empty(t, got.Notifications)
}

func TestParseOutput_Invalid(t *testing.T) {
	for _, text := range []string{"", "no json here", `{"dataTable":42}`} {
		_, err := ParseOutput(text)
		assert.ErrorIs(t, err, ErrInvalidResponse, "input %q", text)
	}
}

func TestDataURL(t *testing.T) {
	img := models.Image{Data: []byte("abc"), MIME: "image/png"}
	assert.Equal(t, "data:image/png;base64,YWJj", DataURL(img))
}

func TestPostJSON_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Key"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := PostJSON(context.Background(), ts.Client(), ts.URL, map[string]string{"X-Key": "secret"}, map[string]string{"a": "b"}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestPostJSON_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer ts.Close()

	var out map[string]any
	err := PostJSON(context.Background(), ts.Client(), ts.URL, nil, struct{}{}, &out)
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "status 401")
	assert.Less(t, len(err.Error()), 800)
}

func TestPostJSON_Unreachable(t *testing.T) {
	var out map[string]any
	err := PostJSON(context.Background(), &http.Client{}, "http://127.0.0.1:1", nil, struct{}{}, &out)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestPostJSON_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out map[string]any
	err := PostJSON(ctx, ts.Client(), ts.URL, nil, struct{}{}, &out)
	assert.ErrorIs(t, err, ErrInferenceTimeout)
}

func TestPostJSON_BadBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer ts.Close()

	var out map[string]any
	err := PostJSON(context.Background(), ts.Client(), ts.URL, nil, struct{}{}, &out)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
