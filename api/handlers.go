/*
handlers.go - HTTP API handlers for the trip planning engine

PURPOSE:
  Exposes the trip engine via REST. Handles HTTP request/response and JSON
  serialization, and delegates to the vehicle registry and trip managers.

ENDPOINTS:
  Vehicles:
    GET    /api/vehicles                          List vehicle profiles
    POST   /api/vehicles                          Register vehicle

  Trips:
    GET    /api/vehicles/{vehicleID}/trips                  List trips
    POST   /api/vehicles/{vehicleID}/trips/recurring        Add recurring trip
    POST   /api/vehicles/{vehicleID}/trips/punctual         Add punctual trip
    POST   /api/vehicles/{vehicleID}/trips/import           Import weekly pattern
    PATCH  /api/vehicles/{vehicleID}/trips/{tripID}         Edit trip
    DELETE /api/vehicles/{vehicleID}/trips/{tripID}         Delete trip
    POST   /api/vehicles/{vehicleID}/trips/{tripID}/pause   Pause recurring
    POST   /api/vehicles/{vehicleID}/trips/{tripID}/resume  Resume recurring
    POST   /api/vehicles/{vehicleID}/trips/{tripID}/complete Complete punctual
    POST   /api/vehicles/{vehicleID}/trips/{tripID}/cancel  Cancel punctual

  Derived values:
    GET    /api/vehicles/{vehicleID}/summary      Next trip, deadline,
                                                  kWh/hours needed today

ERROR HANDLING:
  Engine errors are already classified; handlers only map them:
  - 400: validation errors, out-of-domain arguments
  - 404: unknown vehicle, unknown trip id
  - 409: kind mismatch, terminal status transition, duplicate vehicle
  - 500: persistence failures

SEE ALSO:
  - dto.go: Request/response data structures
  - coordinator.go: Cached summary recomputation
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/trip-engine/trips"
	"github.com/warp/trip-engine/vehicle"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry  *vehicle.Registry
	Summaries *SummaryCoordinator
}

// NewHandler creates a handler over the registry and summary coordinator.
func NewHandler(registry *vehicle.Registry, summaries *SummaryCoordinator) *Handler {
	return &Handler{Registry: registry, Summaries: summaries}
}

// =============================================================================
// VEHICLE HANDLERS
// =============================================================================

// ListVehicles returns all registered vehicle profiles.
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	profiles := h.Registry.List()
	dtos := make([]VehicleDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = vehicleDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RegisterVehicle creates a new vehicle profile and its trip manager.
func (h *Handler) RegisterVehicle(w http.ResponseWriter, r *http.Request) {
	var req RegisterVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Registry.Register(r.Context(), vehicle.Profile{
		ID:                  req.VehicleID,
		Name:                req.Name,
		Type:                vehicle.Type(req.VehicleType),
		Timezone:            req.Timezone,
		BatteryCapacityKWh:  req.BatteryCapacityKWh,
		ChargingPowerKW:     req.ChargingPowerKW,
		KWhPerKM:            req.KWhPerKM,
		SafetyMarginPercent: req.SafetyMarginPercent,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicleDTO(p))
}

// =============================================================================
// TRIP HANDLERS
// =============================================================================

// ListTrips returns the vehicle's full trip collection in wire form.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}
	c, err := mgr.Snapshot(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips.EncodeCollection(c).Trips)
}

// AddRecurringTrip adds a weekly trip.
func (h *Handler) AddRecurringTrip(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}
	var req AddRecurringTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	id, err := mgr.AddRecurring(r.Context(), req.DiaSemana, req.Hora, req.KM, req.KWh, req.Descripcion)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedDTO{ID: id})
}

// AddPunctualTrip adds a one-off trip.
func (h *Handler) AddPunctualTrip(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}
	var req AddPunctualTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	id, err := mgr.AddPunctual(r.Context(), req.Datetime, req.KM, req.KWh, req.Descripcion)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedDTO{ID: id})
}

// EditTrip applies a partial update to one trip.
func (h *Handler) EditTrip(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}
	var req EditTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	updated, err := mgr.Edit(r.Context(), chi.URLParam(r, "tripID"), req.Updates)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	doc := trips.EncodeCollection(trips.Collection{Trips: []trips.Trip{updated}})
	writeJSON(w, http.StatusOK, doc.Trips[0])
}

// DeleteTrip removes one trip. Deleting twice fails the second time.
func (h *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}
	if err := mgr.Delete(r.Context(), chi.URLParam(r, "tripID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PauseTrip pauses a recurring trip.
func (h *Handler) PauseTrip(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, (*trips.Manager).Pause)
}

// ResumeTrip resumes a paused recurring trip.
func (h *Handler) ResumeTrip(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, (*trips.Manager).Resume)
}

// CompleteTrip marks a pending punctual trip completed.
func (h *Handler) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, (*trips.Manager).Complete)
}

// CancelTrip marks a pending punctual trip cancelled.
func (h *Handler) CancelTrip(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, (*trips.Manager).Cancel)
}

func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request, op func(*trips.Manager, context.Context, string) error) {
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}
	if err := op(mgr, r.Context(), chi.URLParam(r, "tripID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportWeeklyPattern bulk-imports recurring trips, all-or-nothing.
func (h *Handler) ImportWeeklyPattern(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}
	var req ImportWeeklyPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	clear := true
	if req.ClearExisting != nil {
		clear = *req.ClearExisting
	}
	ids, err := mgr.ImportWeeklyPattern(r.Context(), req.Pattern, clear)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ImportResultDTO{IDs: ids, Count: len(ids)})
}

// =============================================================================
// SUMMARY HANDLER
// =============================================================================

// GetSummary returns the derived charging values for one vehicle.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "vehicleID")
	summary, err := h.Summaries.Summary(r.Context(), vehicleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) manager(w http.ResponseWriter, r *http.Request) (*trips.Manager, bool) {
	mgr, err := h.Registry.Manager(chi.URLParam(r, "vehicleID"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return mgr, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

type errorDTO struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	dto := errorDTO{Error: msg}
	if err != nil {
		dto.Details = err.Error()
	}
	writeJSON(w, status, dto)
}

// writeDomainError maps engine error classes to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trips.ErrValidation), errors.Is(err, trips.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case errors.Is(err, trips.ErrNotFound), errors.Is(err, vehicle.ErrUnknownVehicle):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, trips.ErrTypeMismatch), errors.Is(err, trips.ErrInvalidTransition),
		errors.Is(err, vehicle.ErrVehicleExists):
		writeError(w, http.StatusConflict, "Conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
