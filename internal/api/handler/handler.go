// Package handler implements the HTTP handlers of the planner API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kiranshivaraju/fieldplanner/internal/ai"
	"github.com/kiranshivaraju/fieldplanner/internal/api/response"
	"github.com/kiranshivaraju/fieldplanner/internal/schedule"
	"github.com/kiranshivaraju/fieldplanner/internal/store"
	"github.com/kiranshivaraju/fieldplanner/internal/worksheet"
	"github.com/kiranshivaraju/fieldplanner/pkg/imageprep"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// Extractor turns uploaded screenshots into a review draft.
type Extractor interface {
	Extract(ctx context.Context, uploads [][]byte) (models.ReviewDraft, error)
}

// TravelEstimator answers travel questions between addresses.
type TravelEstimator interface {
	Estimate(ctx context.Context, origin, destination string) models.EstimateResult
	ReverseGeocode(ctx context.Context, coord models.Coordinate) string
	Annotate(ctx context.Context, jobs []models.JobRecord) []models.TravelLeg
}

// Worksheets is the persistence surface the handlers depend on.
type Worksheets interface {
	Save(ctx context.Context, draft models.ReviewDraft) (*worksheet.Saved, error)
	Get(ctx context.Context, id string) (models.WorksheetRecord, error)
	GetMessages(ctx context.Context, id string) (models.MessageSet, error)
	UpdateJob(ctx context.Context, id string, index int, job models.JobRecord) (models.WorksheetRecord, error)
	UpdateComment(ctx context.Context, id string, index int, text string) (models.WorksheetRecord, error)
	List(ctx context.Context) ([]models.WorksheetSummary, error)
	ListMessageSets(ctx context.Context) ([]models.MessageSetSummary, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, id string) ([]byte, error)
}

const maxJSONBody = 1 << 20

// decodeJSON reads a bounded JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return false
	}
	return true
}

// indexParam parses a non-negative integer URL parameter.
func indexParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || idx < 0 {
		response.Error(w, http.StatusBadRequest, "INVALID_INDEX", name+" must be a non-negative integer", nil)
		return 0, false
	}
	return idx, true
}

// writeError maps domain errors to API error responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "The requested worksheet was not found", nil)
	case errors.Is(err, worksheet.ErrIndexOutOfRange):
		response.Error(w, http.StatusConflict, "INDEX_OUT_OF_RANGE",
			"The job no longer exists in this worksheet", nil)
	case errors.Is(err, ai.ErrProviderUnavailable):
		response.Error(w, http.StatusServiceUnavailable, "AI_PROVIDER_UNAVAILABLE",
			"Screenshot reading is unavailable right now. Check the AI provider settings and try again.", nil)
	case errors.Is(err, ai.ErrInferenceTimeout):
		response.Error(w, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT",
			"Reading the screenshots took too long and was cancelled", nil)
	case errors.Is(err, ai.ErrInvalidResponse):
		response.Error(w, http.StatusBadGateway, "AI_INVALID_RESPONSE",
			"The AI provider returned a response that could not be read", nil)
	case errors.Is(err, ai.ErrNoImages), errors.Is(err, ai.ErrTooManyImages),
		errors.Is(err, imageprep.ErrUnsupportedFormat), errors.Is(err, imageprep.ErrUndecodable),
		errors.Is(err, imageprep.ErrTooLarge):
		response.Error(w, http.StatusBadRequest, "INVALID_IMAGE", err.Error(), nil)
	case errors.Is(err, schedule.ErrInvalidTime), errors.Is(err, schedule.ErrSlotIndex),
		errors.Is(err, schedule.ErrPastMidnight):
		response.Error(w, http.StatusBadRequest, "INVALID_SLOT", err.Error(), nil)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
