/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Request field names
  are the original service vocabulary (dia_semana, hora, km, kwh,
  descripcion, datetime, pattern, clear_existing); day names are accepted
  in any case/accent variant and normalized inside the engine.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Handlers decode and forward; field validation lives in the trips and
  vehicle packages, which return classified errors the handlers map to
  HTTP statuses.

SEE ALSO:
  - handlers.go: Uses these types
  - trips/store.go: TripRecord, the wire shape reused for trip responses
*/
package api

import (
	"github.com/warp/trip-engine/trips"
	"github.com/warp/trip-engine/vehicle"
)

// =============================================================================
// VEHICLES
// =============================================================================

// RegisterVehicleRequest creates a vehicle profile. Zero-valued optional
// fields fall back to defaults (3.6 kW charging, 0.15 kWh/km, 10% margin).
type RegisterVehicleRequest struct {
	VehicleID           string  `json:"vehicle_id"`
	Name                string  `json:"name"`
	VehicleType         string  `json:"vehicle_type,omitempty"`
	Timezone            string  `json:"timezone,omitempty"`
	BatteryCapacityKWh  float64 `json:"battery_capacity_kwh,omitempty"`
	ChargingPowerKW     float64 `json:"charging_power_kw,omitempty"`
	KWhPerKM            float64 `json:"kwh_per_km,omitempty"`
	SafetyMarginPercent float64 `json:"safety_margin_percent,omitempty"`
}

// VehicleDTO represents a vehicle profile in responses.
type VehicleDTO struct {
	VehicleID           string  `json:"vehicle_id"`
	Name                string  `json:"name"`
	VehicleType         string  `json:"vehicle_type"`
	Timezone            string  `json:"timezone,omitempty"`
	BatteryCapacityKWh  float64 `json:"battery_capacity_kwh"`
	ChargingPowerKW     float64 `json:"charging_power_kw"`
	KWhPerKM            float64 `json:"kwh_per_km"`
	SafetyMarginPercent float64 `json:"safety_margin_percent"`
}

func vehicleDTO(p vehicle.Profile) VehicleDTO {
	return VehicleDTO{
		VehicleID:           p.ID,
		Name:                p.Name,
		VehicleType:         string(p.Type),
		Timezone:            p.Timezone,
		BatteryCapacityKWh:  p.BatteryCapacityKWh,
		ChargingPowerKW:     p.ChargingPowerKW,
		KWhPerKM:            p.KWhPerKM,
		SafetyMarginPercent: p.SafetyMarginPercent,
	}
}

// =============================================================================
// TRIPS
// =============================================================================

// AddRecurringTripRequest adds a weekly trip.
type AddRecurringTripRequest struct {
	DiaSemana   string  `json:"dia_semana"`
	Hora        string  `json:"hora"`
	KM          float64 `json:"km"`
	KWh         float64 `json:"kwh"`
	Descripcion string  `json:"descripcion"`
}

// AddPunctualTripRequest adds a one-off trip.
type AddPunctualTripRequest struct {
	Datetime    string  `json:"datetime"`
	KM          float64 `json:"km"`
	KWh         float64 `json:"kwh"`
	Descripcion string  `json:"descripcion"`
}

// EditTripRequest carries a partial update; absent fields stay unchanged.
type EditTripRequest struct {
	Updates trips.TripUpdate `json:"updates"`
}

// ImportWeeklyPatternRequest replaces or extends the recurring schedule.
// clear_existing defaults to true, matching the import service contract.
type ImportWeeklyPatternRequest struct {
	ClearExisting *bool                      `json:"clear_existing,omitempty"`
	Pattern       map[string][]trips.TripSpec `json:"pattern"`
}

// CreatedDTO returns a freshly generated trip id.
type CreatedDTO struct {
	ID string `json:"id"`
}

// ImportResultDTO lists the ids created by a pattern import.
type ImportResultDTO struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

// Trip responses reuse the wire record shape (trips.TripRecord), which
// already carries the public field names.

// =============================================================================
// SUMMARY (derived values)
// =============================================================================

// SummaryDTO exposes the derived values consumed by sensors and dashboards.
type SummaryDTO struct {
	VehicleID           string  `json:"vehicle_id"`
	NextTripID          *string `json:"next_trip_id,omitempty"`
	NextTripDescription *string `json:"next_trip_description,omitempty"`
	NextDeadline        *string `json:"next_deadline,omitempty"` // RFC3339, vehicle timezone
	KWhNeededToday      float64 `json:"kwh_needed_today"`
	HoursNeededToday    int     `json:"hours_needed_today"`
	RecurringTrips      int     `json:"recurring_trips"`
	PunctualTrips       int     `json:"punctual_trips"`
	ComputedAt          string  `json:"computed_at"`
}
