/*
Package vehicle holds vehicle profiles and the manager registry.

PURPOSE:
  A Profile captures the per-vehicle configuration the trip engine needs
  (timezone, charging power) plus the descriptive fields collected at
  onboarding (battery capacity, consumption, safety margin). The Registry
  owns one trips.Manager per registered vehicle; it is constructed at
  startup and passed by reference to whatever issues requests - core logic
  never reaches through ambient globals.
*/
package vehicle

import (
	"fmt"
	"time"

	"github.com/warp/trip-engine/trips"
)

// Type distinguishes full-electric from plug-in hybrid vehicles.
type Type string

const (
	TypeEV   Type = "ev"
	TypePHEV Type = "phev"
)

// Defaults applied when a profile leaves optional fields unset.
const (
	DefaultChargingPowerKW     = 3.6
	DefaultKWhPerKM            = 0.15
	DefaultSafetyMarginPercent = 10.0
)

// Profile is the configuration of one vehicle.
type Profile struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Type                Type    `json:"vehicle_type"`
	Timezone            string  `json:"timezone"` // IANA name; empty = host local zone
	BatteryCapacityKWh  float64 `json:"battery_capacity_kwh"`
	ChargingPowerKW     float64 `json:"charging_power_kw"`
	KWhPerKM            float64 `json:"kwh_per_km"`
	SafetyMarginPercent float64 `json:"safety_margin_percent"`
	Created             time.Time `json:"created_at,omitempty"`
}

// WithDefaults returns a copy with unset optional fields filled in.
func (p Profile) WithDefaults() Profile {
	if p.Type == "" {
		p.Type = TypeEV
	}
	if p.ChargingPowerKW == 0 {
		p.ChargingPowerKW = DefaultChargingPowerKW
	}
	if p.KWhPerKM == 0 {
		p.KWhPerKM = DefaultKWhPerKM
	}
	if p.SafetyMarginPercent == 0 {
		p.SafetyMarginPercent = DefaultSafetyMarginPercent
	}
	return p
}

// Validate checks the profile after defaults are applied.
func (p Profile) Validate() error {
	if p.ID == "" {
		return &trips.ValidationError{Field: "vehicle_id", Value: "", Reason: "vehicle id is required"}
	}
	switch p.Type {
	case TypeEV, TypePHEV:
	default:
		return &trips.ValidationError{Field: "vehicle_type", Value: string(p.Type), Reason: "must be ev or phev"}
	}
	if p.BatteryCapacityKWh < 0 {
		return &trips.ValidationError{Field: "battery_capacity_kwh", Value: fmt.Sprintf("%v", p.BatteryCapacityKWh), Reason: "must not be negative"}
	}
	if p.ChargingPowerKW <= 0 {
		return &trips.ValidationError{Field: "charging_power_kw", Value: fmt.Sprintf("%v", p.ChargingPowerKW), Reason: "must be positive"}
	}
	if p.KWhPerKM < 0 {
		return &trips.ValidationError{Field: "kwh_per_km", Value: fmt.Sprintf("%v", p.KWhPerKM), Reason: "must not be negative"}
	}
	if p.SafetyMarginPercent < 0 || p.SafetyMarginPercent > 100 {
		return &trips.ValidationError{Field: "safety_margin_percent", Value: fmt.Sprintf("%v", p.SafetyMarginPercent), Reason: "must be between 0 and 100"}
	}
	if _, err := p.Location(); err != nil {
		return &trips.ValidationError{Field: "timezone", Value: p.Timezone, Reason: "unknown timezone"}
	}
	return nil
}

// Location resolves the profile's timezone, falling back to the host zone.
func (p Profile) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(p.Timezone)
}
