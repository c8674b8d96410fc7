package handler

import (
	"fmt"
	"net/http"

	"github.com/kiranshivaraju/fieldplanner/internal/api/response"
	"github.com/kiranshivaraju/fieldplanner/internal/schedule"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// maxJobCount bounds the slots derived for one worksheet.
const maxJobCount = 200

// NewSlotChoicesHandler returns an http.HandlerFunc for GET /api/v1/slots/choices.
func NewSlotChoicesHandler(scheduler schedule.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, map[string]any{"choices": scheduler.StartChoices()})
	}
}

// NewInitialSlotsHandler returns an http.HandlerFunc for POST /api/v1/slots/initial.
func NewInitialSlotsHandler(scheduler schedule.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JobCount int               `json:"jobCount"`
			Existing []models.TimeSlot `json:"existing"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.JobCount < 0 || req.JobCount > maxJobCount {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"jobCount must be between 0 and 200", nil)
			return
		}
		if len(req.Existing) == 0 && req.JobCount > scheduler.Capacity() {
			response.Error(w, http.StatusBadRequest, "INVALID_SLOT",
				fmt.Sprintf("Only %d time slots fit before midnight", scheduler.Capacity()), nil)
			return
		}

		response.JSON(w, slotsResponse{TimeSlots: scheduler.DeriveInitial(req.Existing, req.JobCount)})
	}
}

// NewReviseSlotHandler returns an http.HandlerFunc for POST /api/v1/slots/revise.
// The first slot is fixed and cannot be revised.
func NewReviseSlotHandler(scheduler schedule.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Slots []models.TimeSlot `json:"slots"`
			Index *int              `json:"index"`
			Start string            `json:"start"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Index == nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "index is required", nil)
			return
		}
		if *req.Index == 0 {
			response.Error(w, http.StatusBadRequest, "SLOT_LOCKED", "The first time slot cannot be changed", nil)
			return
		}

		slots, err := scheduler.Revise(req.Slots, *req.Index, req.Start)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, slotsResponse{TimeSlots: slots})
	}
}

type slotsResponse struct {
	TimeSlots []models.TimeSlot `json:"timeSlots"`
}
