package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kiranshivaraju/fieldplanner/internal/ai"
	"github.com/kiranshivaraju/fieldplanner/internal/api/response"
	"github.com/kiranshivaraju/fieldplanner/internal/schedule"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

const (
	// maxUploadBytes caps the whole multipart body of one extraction request.
	maxUploadBytes = 40 << 20
	maxMemoryBytes = 8 << 20
	imagesField    = "images"
)

// NewExtractHandler returns an http.HandlerFunc for POST /api/v1/extract.
// It expects a multipart form with one or more "images" files.
func NewExtractHandler(svc Extractor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE",
					fmt.Sprintf("Uploads must total less than %d MB", maxUploadBytes>>20), nil)
				return
			}
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Expected a multipart form", nil)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		files := r.MultipartForm.File[imagesField]
		if len(files) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_IMAGE", "At least one image is required", nil)
			return
		}
		if len(files) > ai.MaxImages {
			response.Error(w, http.StatusBadRequest, "INVALID_IMAGE",
				fmt.Sprintf("At most %d images can be read at once", ai.MaxImages), nil)
			return
		}

		uploads := make([][]byte, 0, len(files))
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_IMAGE", "Unable to read "+fh.Filename, nil)
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_IMAGE", "Unable to read "+fh.Filename, nil)
				return
			}
			uploads = append(uploads, data)
		}

		draft, err := svc.Extract(r.Context(), uploads)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, draft)
	}
}

// NewParseHandler returns an http.HandlerFunc for POST /api/v1/parse. It
// builds a draft from a pipe-delimited table without calling any AI provider.
func NewParseHandler(scheduler schedule.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DataTable string `json:"dataTable"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}

		draft := ai.BuildDraft(models.ExtractionResult{DataTable: req.DataTable}, scheduler, time.Now())
		response.JSON(w, parseResponse{
			DateLabel: draft.DateLabel,
			Jobs:      draft.Jobs,
			TimeSlots: draft.TimeSlots,
		})
	}
}

type parseResponse struct {
	DateLabel string             `json:"dateLabel"`
	Jobs      []models.JobRecord `json:"jobs"`
	TimeSlots []models.TimeSlot  `json:"timeSlots"`
}
