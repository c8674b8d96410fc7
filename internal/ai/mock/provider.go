package mock

import (
	"context"

	"github.com/kiranshivaraju/fieldplanner/internal/ai"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// SampleTable is the table the default mock returns: a date heading, a
// header row, a separator and two jobs.
const SampleTable = `Thursday, Nov 13
| Time | Address | Product Code | Product Type | Product Brand | Fault | Error Code | Production Year | Serial Number |
|------|---------|--------------|--------------|---------------|-------|------------|-----------------|---------------|
| AM | 12 Elm Road, Leamington CV32 5AB | WM-100 | Washing machine | Bosch | Not draining | E18 | 2019 | SN123 |
|  | 4 Mill Lane, Coventry CV1 2AB | DW-7 | Dishwasher | Miele | Leaking |  | 2021 | SN456 |`

// MockProvider satisfies models.Extractor for testing.
type MockProvider struct {
	Name_       string
	ExtractFunc func(ctx context.Context, req models.ExtractionRequest) (models.ExtractionResult, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Extract(ctx context.Context, req models.ExtractionRequest) (models.ExtractionResult, error) {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, req)
	}
	return models.ExtractionResult{}, nil
}

// NewMockProvider returns a MockProvider with a two-job default response.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock",
		ExtractFunc: func(_ context.Context, _ models.ExtractionRequest) (models.ExtractionResult, error) {
			return models.ExtractionResult{
				DataTable: SampleTable,
				Notifications: []string{
					"Hello, your engineer will arrive between {{TIME_SLOT}} today.",
					"Hello, your engineer will arrive between {{TIME_SLOT}} today.",
				},
			}, nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		ExtractFunc: func(_ context.Context, _ models.ExtractionRequest) (models.ExtractionResult, error) {
			return models.ExtractionResult{}, err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		ExtractFunc: func(ctx context.Context, _ models.ExtractionRequest) (models.ExtractionResult, error) {
			<-ctx.Done()
			return models.ExtractionResult{}, ai.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockProvider implements Extractor.
var _ models.Extractor = (*MockProvider)(nil)
