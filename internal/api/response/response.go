// Package response writes the planner's JSON envelopes. Successful calls
// wrap their payload in "data"; failures carry a machine-readable code in
// "error" that clients switch on (INVALID_SLOT, SLOT_LOCKED and so on).
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

type envelope struct {
	Data any `json:"data"`
}

type collectionEnvelope struct {
	Data any            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// PaginationMeta describes one page of worksheets or worksheet messages.
type PaginationMeta struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
}

// Paginate cuts page (1-based) of size limit out of all. A page past the
// end is empty rather than an error so clients can stop on HasNext alone.
func Paginate[T any](all []T, page, limit int) ([]T, PaginationMeta) {
	meta := PaginationMeta{Page: page, Limit: limit, Total: len(all)}
	start := (page - 1) * limit
	if start >= len(all) {
		return []T{}, meta
	}
	end := min(start+limit, len(all))
	meta.HasNext = end < len(all)
	return all[start:end], meta
}

func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Collection(w http.ResponseWriter, data any, meta PaginationMeta) {
	writeJSON(w, http.StatusOK, collectionEnvelope{Data: data, Meta: meta})
}

// Attachment sends an exported worksheet as a download. Exports hold
// customer addresses, so intermediaries are told not to keep a copy.
func Attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Error writes the error envelope. details is omitted when nil.
func Error(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
