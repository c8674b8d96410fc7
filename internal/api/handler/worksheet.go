package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kiranshivaraju/fieldplanner/internal/api/response"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// NewSaveWorksheetHandler returns an http.HandlerFunc for POST /api/v1/worksheets.
func NewSaveWorksheetHandler(sheets Worksheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft models.ReviewDraft
		if !decodeJSON(w, r, &draft) {
			return
		}
		if strings.TrimSpace(draft.DateLabel) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "dateLabel is required", nil)
			return
		}
		if len(draft.Jobs) > maxJobCount {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "too many jobs", nil)
			return
		}

		saved, err := sheets.Save(r.Context(), draft)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Created(w, saved)
	}
}

// NewListWorksheetsHandler returns an http.HandlerFunc for GET /api/v1/worksheets.
func NewListWorksheetsHandler(sheets Worksheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, ok := pageParams(w, r)
		if !ok {
			return
		}
		all, err := sheets.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		items, meta := response.Paginate(all, page, limit)
		response.Collection(w, items, meta)
	}
}

// NewGetWorksheetHandler returns an http.HandlerFunc for GET /api/v1/worksheets/{id}.
func NewGetWorksheetHandler(sheets Worksheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sheets.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, ws)
	}
}

// NewDeleteWorksheetHandler returns an http.HandlerFunc for DELETE /api/v1/worksheets/{id}.
func NewDeleteWorksheetHandler(sheets Worksheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sheets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		response.NoContent(w)
	}
}

// NewUpdateJobHandler returns an http.HandlerFunc for
// PUT /api/v1/worksheets/{id}/jobs/{index}.
func NewUpdateJobHandler(sheets Worksheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r, "index")
		if !ok {
			return
		}
		var job models.JobRecord
		if !decodeJSON(w, r, &job) {
			return
		}
		if strings.TrimSpace(job.Time) == "" {
			job.Time = models.DefaultJobTime
		}

		ws, err := sheets.UpdateJob(r.Context(), chi.URLParam(r, "id"), index, job)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, ws)
	}
}

// NewUpdateCommentHandler returns an http.HandlerFunc for
// PUT /api/v1/worksheets/{id}/comments/{index}.
func NewUpdateCommentHandler(sheets Worksheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r, "index")
		if !ok {
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}

		ws, err := sheets.UpdateComment(r.Context(), chi.URLParam(r, "id"), index, req.Text)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, ws)
	}
}

// NewExportWorksheetHandler returns an http.HandlerFunc for
// GET /api/v1/worksheets/{id}/export.xlsx.
func NewExportWorksheetHandler(sheets Worksheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		data, err := sheets.Export(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Attachment(w, xlsxContentType, "worksheet-"+id+".xlsx", data)
	}
}

// NewListMessagesHandler returns an http.HandlerFunc for GET /api/v1/messages.
func NewListMessagesHandler(sheets Worksheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, ok := pageParams(w, r)
		if !ok {
			return
		}
		all, err := sheets.ListMessageSets(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		items, meta := response.Paginate(all, page, limit)
		response.Collection(w, items, meta)
	}
}

// NewGetMessagesHandler returns an http.HandlerFunc for GET /api/v1/messages/{id}.
func NewGetMessagesHandler(sheets Worksheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, err := sheets.GetMessages(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, ms)
	}
}

// pageParams reads ?page and ?limit, defaulting to page 1 of 50.
func pageParams(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	page, limit = 1, defaultPageLimit
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "page must be a positive integer", nil)
			return 0, 0, false
		}
		page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer", nil)
			return 0, 0, false
		}
		limit = min(n, maxPageLimit)
	}
	return page, limit, true
}
