package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/kiranshivaraju/fieldplanner/internal/api/response"
)

// Recovery turns a handler panic into a 500 error envelope. When the handler
// had already started its response (a half-written worksheet export, say)
// nothing more is written and the client sees a truncated body.
// http.ErrAbortHandler is re-raised so the server can abort the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}
			client, _ := GetClientID(r)
			slog.Error("planner handler panicked",
				"error", err,
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
				"client", client,
				"response_started", rec.started,
			)
			if rec.started {
				return
			}
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "The planner hit an unexpected error", nil)
		}()
		next.ServeHTTP(rec, r)
	})
}
