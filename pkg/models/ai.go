// Package models contains shared data models used across the planner codebase.
package models

import "context"

// Extractor is the core interface that all AI integrations must implement.
// Callers take this interface rather than a concrete provider.
type Extractor interface {
	// Extract reads job screenshots and returns the delimited job table plus
	// one templated notification per job.
	Extract(ctx context.Context, req ExtractionRequest) (ExtractionResult, error)
	// Name returns the provider identifier (e.g., "ollama", "openai").
	Name() string
}

// Image is a single uploaded screenshot ready to send to a provider.
type Image struct {
	Data []byte
	MIME string
}

// ExtractionRequest is the input to an AI extraction operation.
type ExtractionRequest struct {
	Images []Image
}

// ExtractionResult is the upstream contract of the extraction service.
// Notifications are index-aligned with the table rows and each contains
// the time slot placeholder token.
type ExtractionResult struct {
	DataTable     string   `json:"dataTable"`
	Notifications []string `json:"notifications"`
}
