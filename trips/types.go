/*
Package trips provides the core trip planning engine.

PURPOSE:
  This package contains the canonical trip records for one vehicle, the
  manager that owns all mutations on them, and the pure calculation layer
  that derives charging requirements (next trip, next deadline, energy and
  hours needed today) from the current trip collection.

KEY CONCEPTS IN THIS FILE (types.go):
  - Trip: A tagged variant holding either a RecurringTrip or a PunctualTrip
  - RecurringTrip: A weekly trip anchored to a day-of-week and wall-clock time
  - PunctualTrip: A one-off trip anchored to an absolute local date-time
  - Collection: All trips for one vehicle, keyed by unique trip id
  - Occurrence: One concrete calendar instance, derived on demand (never stored)

DESIGN PRINCIPLES:
  1. Tagged variants: kind-specific operations (pause vs complete) are
     enumerable at compile time instead of failing on a missing field
  2. Timezone discipline: punctual timestamps are naive on the wire and
     always interpreted in the vehicle's configured location
  3. Derived values are recomputed from scratch on every call; the engine
     caches nothing

SEE ALSO:
  - manager.go: CRUD and lifecycle operations
  - expand.go: Recurring trip expansion into concrete occurrences
  - calc.go: Deadline and energy derivation
*/
package trips

import (
	"fmt"
	"time"
)

// =============================================================================
// TRIP KINDS AND STATUSES
// =============================================================================

// Kind discriminates the two trip variants. The values double as the wire
// format used in stored documents ("recurrente" / "puntual").
type Kind string

const (
	KindRecurring Kind = "recurrente"
	KindPunctual  Kind = "puntual"
)

// Status is the lifecycle state of a punctual trip. Terminal states are kept
// for history but excluded from all forward-looking calculations.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusCompleted Status = "completado"
	StatusCancelled Status = "cancelado"
)

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// =============================================================================
// WEEKDAY - Canonical day-of-week (Monday-first, Spanish tokens)
// =============================================================================

// Weekday is a canonical day of week, 0 = lunes .. 6 = domingo.
// Input normalization (case, accents) happens at the boundary via
// ParseWeekday; a Weekday value is always canonical.
type Weekday int

const (
	Lunes Weekday = iota
	Martes
	Miercoles
	Jueves
	Viernes
	Sabado
	Domingo
)

var weekdayNames = [7]string{
	"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo",
}

func (w Weekday) String() string {
	if w < 0 || w > 6 {
		return fmt.Sprintf("weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Valid reports whether w is one of the seven canonical days.
func (w Weekday) Valid() bool { return w >= 0 && w <= 6 }

// FromGoWeekday converts time.Weekday (Sunday-first) to the Monday-first scheme.
func FromGoWeekday(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % 7)
}

// =============================================================================
// CLOCK TIME - Wall-clock hour:minute
// =============================================================================

// ClockTime is a wall-clock time of day, interpreted in the vehicle's
// configured timezone when combined with a date.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Valid reports whether the time is a real 24-hour wall-clock time.
func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// =============================================================================
// TRIP RECORDS
// =============================================================================

// RecurringTrip is a weekly-repeating planned trip.
type RecurringTrip struct {
	ID          string
	Day         Weekday
	At          ClockTime
	DistanceKM  float64
	EnergyKWh   float64
	Description string
	Active      bool // false = paused: kept, but excluded from expansion
	Created     time.Time
}

// Validate checks field ranges. Identity (ID uniqueness) is enforced by the
// Manager, not here.
func (r RecurringTrip) Validate() error {
	if !r.Day.Valid() {
		return &ValidationError{Field: "dia_semana", Value: fmt.Sprintf("%d", int(r.Day)), Reason: "not a canonical day of week"}
	}
	if !r.At.Valid() {
		return &ValidationError{Field: "hora", Value: r.At.String(), Reason: "hour or minute out of range"}
	}
	if r.DistanceKM < 0 {
		return &ValidationError{Field: "km", Value: fmt.Sprintf("%v", r.DistanceKM), Reason: "distance must not be negative"}
	}
	if r.EnergyKWh < 0 {
		return &ValidationError{Field: "kwh", Value: fmt.Sprintf("%v", r.EnergyKWh), Reason: "energy must not be negative"}
	}
	return nil
}

// PunctualTrip is a one-off planned trip. ScheduledAt is stored naive on the
// wire and carried here already located in the vehicle's timezone.
type PunctualTrip struct {
	ID          string
	ScheduledAt time.Time
	DistanceKM  float64
	EnergyKWh   float64
	Description string
	Status      Status
	Created     time.Time
}

func (p PunctualTrip) Validate() error {
	if p.ScheduledAt.IsZero() {
		return &ValidationError{Field: "datetime", Value: "", Reason: "scheduled date-time is required"}
	}
	switch p.Status {
	case StatusPending, StatusCompleted, StatusCancelled:
	default:
		return &ValidationError{Field: "estado", Value: string(p.Status), Reason: "unknown status"}
	}
	if p.DistanceKM < 0 {
		return &ValidationError{Field: "km", Value: fmt.Sprintf("%v", p.DistanceKM), Reason: "distance must not be negative"}
	}
	if p.EnergyKWh < 0 {
		return &ValidationError{Field: "kwh", Value: fmt.Sprintf("%v", p.EnergyKWh), Reason: "energy must not be negative"}
	}
	return nil
}

// =============================================================================
// TRIP - Tagged variant
// =============================================================================

// Trip holds exactly one of the two record kinds. Exactly one pointer is
// non-nil, matching Kind.
type Trip struct {
	Kind      Kind
	Recurring *RecurringTrip
	Punctual  *PunctualTrip
}

// NewRecurring wraps a RecurringTrip in the variant.
func NewRecurring(r RecurringTrip) Trip {
	return Trip{Kind: KindRecurring, Recurring: &r}
}

// NewPunctual wraps a PunctualTrip in the variant.
func NewPunctual(p PunctualTrip) Trip {
	return Trip{Kind: KindPunctual, Punctual: &p}
}

// ID returns the trip's unique identifier regardless of kind.
func (t Trip) ID() string {
	switch t.Kind {
	case KindRecurring:
		return t.Recurring.ID
	case KindPunctual:
		return t.Punctual.ID
	}
	return ""
}

// Validate dispatches to the kind-specific validation and checks the variant
// invariant itself.
func (t Trip) Validate() error {
	switch t.Kind {
	case KindRecurring:
		if t.Recurring == nil {
			return &ValidationError{Field: "tipo", Value: string(t.Kind), Reason: "recurring trip data missing"}
		}
		return t.Recurring.Validate()
	case KindPunctual:
		if t.Punctual == nil {
			return &ValidationError{Field: "tipo", Value: string(t.Kind), Reason: "punctual trip data missing"}
		}
		return t.Punctual.Validate()
	}
	return &ValidationError{Field: "tipo", Value: string(t.Kind), Reason: "unknown trip kind"}
}

// clone returns a deep copy so collection snapshots never alias stored records.
func (t Trip) clone() Trip {
	switch t.Kind {
	case KindRecurring:
		r := *t.Recurring
		return Trip{Kind: KindRecurring, Recurring: &r}
	case KindPunctual:
		p := *t.Punctual
		return Trip{Kind: KindPunctual, Punctual: &p}
	}
	return t
}

// =============================================================================
// COLLECTION - All trips for one vehicle
// =============================================================================

// Collection is the full trip set for a single vehicle. Ids are unique across
// both kinds so edit/delete addressing is unambiguous.
type Collection struct {
	VehicleID string
	Trips     []Trip
}

// Find returns the trip with the given id, or false.
func (c Collection) Find(id string) (Trip, bool) {
	for _, t := range c.Trips {
		if t.ID() == id {
			return t, true
		}
	}
	return Trip{}, false
}

// Contains reports whether an id is present.
func (c Collection) Contains(id string) bool {
	_, ok := c.Find(id)
	return ok
}

// RecurringTrips returns the recurring subset.
func (c Collection) RecurringTrips() []RecurringTrip {
	var out []RecurringTrip
	for _, t := range c.Trips {
		if t.Kind == KindRecurring {
			out = append(out, *t.Recurring)
		}
	}
	return out
}

// PunctualTrips returns the punctual subset.
func (c Collection) PunctualTrips() []PunctualTrip {
	var out []PunctualTrip
	for _, t := range c.Trips {
		if t.Kind == KindPunctual {
			out = append(out, *t.Punctual)
		}
	}
	return out
}

// Clone deep-copies the collection.
func (c Collection) Clone() Collection {
	out := Collection{VehicleID: c.VehicleID, Trips: make([]Trip, len(c.Trips))}
	for i, t := range c.Trips {
		out.Trips[i] = t.clone()
	}
	return out
}

// =============================================================================
// OCCURRENCE - Derived calendar instance (ephemeral)
// =============================================================================

// Occurrence is one concrete calendar instance of a trip inside the forward
// window. Occurrences are produced by Expand and live only for the duration
// of a single calculation pass.
type Occurrence struct {
	TripID      string
	At          time.Time
	DistanceKM  float64
	EnergyKWh   float64
	Description string
	Origin      Kind
}
