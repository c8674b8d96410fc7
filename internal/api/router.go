package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/kiranshivaraju/fieldplanner/internal/api/middleware"
	"github.com/kiranshivaraju/fieldplanner/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	ExtractHandler http.HandlerFunc
	ParseHandler   http.HandlerFunc

	SlotChoicesHandler  http.HandlerFunc
	InitialSlotsHandler http.HandlerFunc
	ReviseSlotHandler   http.HandlerFunc

	EstimateHandler        http.HandlerFunc
	ReverseGeocodeHandler  http.HandlerFunc
	WorksheetTravelHandler http.HandlerFunc
	SaveWorksheetHandler   http.HandlerFunc
	ListWorksheetsHandler  http.HandlerFunc
	GetWorksheetHandler    http.HandlerFunc
	DeleteWorksheetHandler http.HandlerFunc
	UpdateJobHandler       http.HandlerFunc
	UpdateCommentHandler   http.HandlerFunc
	ExportWorksheetHandler http.HandlerFunc
	ListMessagesHandler    http.HandlerFunc
	GetMessagesHandler     http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/extract", orNotImplemented(deps.ExtractHandler))
		r.Post("/api/v1/parse", orNotImplemented(deps.ParseHandler))

		r.Route("/api/v1/slots", func(r chi.Router) {
			r.Get("/choices", orNotImplemented(deps.SlotChoicesHandler))
			r.Post("/initial", orNotImplemented(deps.InitialSlotsHandler))
			r.Post("/revise", orNotImplemented(deps.ReviseSlotHandler))
		})

		r.Get("/api/v1/travel/estimate", orNotImplemented(deps.EstimateHandler))
		r.Get("/api/v1/travel/reverse", orNotImplemented(deps.ReverseGeocodeHandler))

		r.Route("/api/v1/worksheets", func(r chi.Router) {
			r.Post("/", orNotImplemented(deps.SaveWorksheetHandler))
			r.Get("/", orNotImplemented(deps.ListWorksheetsHandler))
			r.Get("/{id}", orNotImplemented(deps.GetWorksheetHandler))
			r.Delete("/{id}", orNotImplemented(deps.DeleteWorksheetHandler))
			r.Put("/{id}/jobs/{index}", orNotImplemented(deps.UpdateJobHandler))
			r.Put("/{id}/comments/{index}", orNotImplemented(deps.UpdateCommentHandler))
			r.Get("/{id}/travel", orNotImplemented(deps.WorksheetTravelHandler))
			r.Get("/{id}/export.xlsx", orNotImplemented(deps.ExportWorksheetHandler))
		})

		r.Get("/api/v1/messages", orNotImplemented(deps.ListMessagesHandler))
		r.Get("/api/v1/messages/{id}", orNotImplemented(deps.GetMessagesHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
