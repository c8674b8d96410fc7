package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kiranshivaraju/fieldplanner/internal/api/response"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// NewEstimateHandler returns an http.HandlerFunc for
// GET /api/v1/travel/estimate?origin=&destination=.
// An unavailable estimate is still a 200 with a reason.
func NewEstimateHandler(est TravelEstimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		response.JSON(w, est.Estimate(r.Context(), q.Get("origin"), q.Get("destination")))
	}
}

// NewReverseGeocodeHandler returns an http.HandlerFunc for
// GET /api/v1/travel/reverse?lat=&lon=.
func NewReverseGeocodeHandler(est TravelEstimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
		if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			response.Error(w, http.StatusBadRequest, "INVALID_COORDINATE",
				"lat must be within ±90 and lon within ±180", nil)
			return
		}

		addr := est.ReverseGeocode(r.Context(), models.Coordinate{Lat: lat, Lon: lon})
		response.JSON(w, map[string]string{"address": addr})
	}
}

// NewWorksheetTravelHandler returns an http.HandlerFunc for
// GET /api/v1/worksheets/{id}/travel. It estimates every adjacent pair of jobs.
func NewWorksheetTravelHandler(sheets Worksheets, est TravelEstimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := sheets.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, map[string]any{"legs": est.Annotate(r.Context(), ws.Jobs)})
	}
}
