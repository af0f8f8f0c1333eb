/*
manager.go - Trip Manager: single owner of trip mutations for one vehicle

PURPOSE:
  Exposes CRUD and lifecycle operations over one vehicle's trip collection.
  Every mutating operation is one read-modify-write cycle against the Store:
  load current document, apply exactly one mutation, persist the full
  updated collection, then emit one change signal.

CONCURRENCY:
  A per-manager mutex serializes mutations so no read-modify-write cycle
  observes a stale snapshot from an interleaved write (lost-update
  prevention). Read-only calls load the latest committed snapshot without
  blocking on in-flight mutations. There is no cross-vehicle shared state.

ERROR POLICY:
  Validation failures commit nothing. Store failures surface as
  PersistenceError with no retry. Bulk import is all-or-nothing: one invalid
  spec aborts the whole batch with zero persisted changes.
*/
package trips

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns the trip collection of a single vehicle.
type Manager struct {
	store     Store
	vehicleID string
	loc       *time.Location
	notifier  Notifier // may be nil

	mu sync.Mutex // serializes mutations

	// now is swappable for tests; defaults to time.Now in loc.
	now func() time.Time
}

// NewManager creates a manager for one vehicle. loc is the vehicle's
// configured timezone; notifier may be nil when no collaborator listens.
func NewManager(store Store, vehicleID string, loc *time.Location, notifier Notifier) *Manager {
	if loc == nil {
		loc = time.Local
	}
	m := &Manager{store: store, vehicleID: vehicleID, loc: loc, notifier: notifier}
	m.now = func() time.Time { return time.Now().In(loc) }
	return m
}

// VehicleID returns the vehicle this manager owns.
func (m *Manager) VehicleID() string { return m.vehicleID }

// Location returns the vehicle's configured timezone.
func (m *Manager) Location() *time.Location { return m.loc }

// =============================================================================
// SNAPSHOT (read-only)
// =============================================================================

// Snapshot loads and decodes the latest committed collection. The result is
// an independent copy; callers may hand it to Expand or the calculators.
func (m *Manager) Snapshot(ctx context.Context) (Collection, error) {
	return m.load(ctx)
}

// =============================================================================
// ADD
// =============================================================================

// AddRecurring validates and appends a weekly trip, returning its fresh id.
// Day names are accepted in any case/accent variant.
func (m *Manager) AddRecurring(ctx context.Context, diaSemana, hora string, km, kwh float64, descripcion string) (string, error) {
	day, err := ParseWeekday(diaSemana)
	if err != nil {
		return "", err
	}
	at, err := ParseClockTime(hora)
	if err != nil {
		return "", err
	}
	trip := RecurringTrip{
		ID:          newRecurringID(day),
		Day:         day,
		At:          at,
		DistanceKM:  km,
		EnergyKWh:   kwh,
		Description: descripcion,
		Active:      true,
		Created:     m.now(),
	}
	if err := trip.Validate(); err != nil {
		return "", err
	}

	err = m.mutate(ctx, func(c *Collection) error {
		c.Trips = append(c.Trips, NewRecurring(trip))
		return nil
	})
	if err != nil {
		return "", err
	}
	return trip.ID, nil
}

// AddPunctual validates and appends a one-off trip, returning its fresh id.
// The date-time is naive local, interpreted in the vehicle's timezone.
func (m *Manager) AddPunctual(ctx context.Context, datetime string, km, kwh float64, descripcion string) (string, error) {
	at, err := ParsePunctualDateTime(datetime, m.loc)
	if err != nil {
		return "", err
	}
	trip := PunctualTrip{
		ID:          newPunctualID(at),
		ScheduledAt: at,
		DistanceKM:  km,
		EnergyKWh:   kwh,
		Description: descripcion,
		Status:      StatusPending,
		Created:     m.now(),
	}
	if err := trip.Validate(); err != nil {
		return "", err
	}

	err = m.mutate(ctx, func(c *Collection) error {
		c.Trips = append(c.Trips, NewPunctual(trip))
		return nil
	})
	if err != nil {
		return "", err
	}
	return trip.ID, nil
}

// =============================================================================
// EDIT
// =============================================================================

// TripUpdate carries the fields of a partial edit. Nil pointers mean "leave
// unchanged". Kind and id are immutable; punctual status moves only through
// Complete/Cancel, and pause state only through Pause/Resume.
type TripUpdate struct {
	DiaSemana   *string  `json:"dia_semana,omitempty"`
	Hora        *string  `json:"hora,omitempty"`
	Datetime    *string  `json:"datetime,omitempty"`
	KM          *float64 `json:"km,omitempty"`
	KWh         *float64 `json:"kwh,omitempty"`
	Descripcion *string  `json:"descripcion,omitempty"`
}

// Edit applies the supplied fields to the trip with the given id and
// revalidates the merged record. A field that does not apply to the trip's
// kind is a validation error, not a silent drop.
func (m *Manager) Edit(ctx context.Context, tripID string, upd TripUpdate) (Trip, error) {
	var updated Trip
	err := m.mutate(ctx, func(c *Collection) error {
		for i, t := range c.Trips {
			if t.ID() != tripID {
				continue
			}
			merged, err := m.applyUpdate(t, upd)
			if err != nil {
				return err
			}
			c.Trips[i] = merged
			updated = merged.clone()
			return nil
		}
		return &NotFoundError{VehicleID: m.vehicleID, TripID: tripID}
	})
	if err != nil {
		return Trip{}, err
	}
	return updated, nil
}

func (m *Manager) applyUpdate(t Trip, upd TripUpdate) (Trip, error) {
	switch t.Kind {
	case KindRecurring:
		if upd.Datetime != nil {
			return Trip{}, &ValidationError{Field: "datetime", Value: *upd.Datetime, Reason: "not applicable to a recurring trip"}
		}
		r := *t.Recurring
		if upd.DiaSemana != nil {
			day, err := ParseWeekday(*upd.DiaSemana)
			if err != nil {
				return Trip{}, err
			}
			r.Day = day
		}
		if upd.Hora != nil {
			at, err := ParseClockTime(*upd.Hora)
			if err != nil {
				return Trip{}, err
			}
			r.At = at
		}
		if upd.KM != nil {
			r.DistanceKM = *upd.KM
		}
		if upd.KWh != nil {
			r.EnergyKWh = *upd.KWh
		}
		if upd.Descripcion != nil {
			r.Description = *upd.Descripcion
		}
		if err := r.Validate(); err != nil {
			return Trip{}, err
		}
		return NewRecurring(r), nil

	case KindPunctual:
		if upd.DiaSemana != nil {
			return Trip{}, &ValidationError{Field: "dia_semana", Value: *upd.DiaSemana, Reason: "not applicable to a punctual trip"}
		}
		if upd.Hora != nil {
			return Trip{}, &ValidationError{Field: "hora", Value: *upd.Hora, Reason: "not applicable to a punctual trip"}
		}
		p := *t.Punctual
		if upd.Datetime != nil {
			at, err := ParsePunctualDateTime(*upd.Datetime, m.loc)
			if err != nil {
				return Trip{}, err
			}
			p.ScheduledAt = at
		}
		if upd.KM != nil {
			p.DistanceKM = *upd.KM
		}
		if upd.KWh != nil {
			p.EnergyKWh = *upd.KWh
		}
		if upd.Descripcion != nil {
			p.Description = *upd.Descripcion
		}
		if err := p.Validate(); err != nil {
			return Trip{}, err
		}
		return NewPunctual(p), nil
	}
	return Trip{}, &ValidationError{Field: "tipo", Value: string(t.Kind), Reason: "unknown trip kind"}
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes the trip with the given id. Deletion is not idempotent:
// deleting an id that is already gone fails with NotFound.
func (m *Manager) Delete(ctx context.Context, tripID string) error {
	return m.mutate(ctx, func(c *Collection) error {
		for i, t := range c.Trips {
			if t.ID() == tripID {
				c.Trips = append(c.Trips[:i], c.Trips[i+1:]...)
				return nil
			}
		}
		return &NotFoundError{VehicleID: m.vehicleID, TripID: tripID}
	})
}

// =============================================================================
// PAUSE / RESUME (recurring only)
// =============================================================================

// Pause sets a recurring trip inactive; it stays stored but contributes no
// occurrences.
func (m *Manager) Pause(ctx context.Context, tripID string) error {
	return m.setActive(ctx, tripID, false)
}

// Resume reactivates a paused recurring trip. All other fields are left
// untouched.
func (m *Manager) Resume(ctx context.Context, tripID string) error {
	return m.setActive(ctx, tripID, true)
}

func (m *Manager) setActive(ctx context.Context, tripID string, active bool) error {
	return m.mutate(ctx, func(c *Collection) error {
		for i, t := range c.Trips {
			if t.ID() != tripID {
				continue
			}
			if t.Kind != KindRecurring {
				return &TypeMismatchError{TripID: tripID, Want: KindRecurring, Got: t.Kind}
			}
			r := *t.Recurring
			r.Active = active
			c.Trips[i] = NewRecurring(r)
			return nil
		}
		return &NotFoundError{VehicleID: m.vehicleID, TripID: tripID}
	})
}

// =============================================================================
// COMPLETE / CANCEL (punctual only)
// =============================================================================

// Complete marks a pending punctual trip as completed.
func (m *Manager) Complete(ctx context.Context, tripID string) error {
	return m.transition(ctx, tripID, StatusCompleted)
}

// Cancel marks a pending punctual trip as cancelled.
func (m *Manager) Cancel(ctx context.Context, tripID string) error {
	return m.transition(ctx, tripID, StatusCancelled)
}

func (m *Manager) transition(ctx context.Context, tripID string, to Status) error {
	return m.mutate(ctx, func(c *Collection) error {
		for i, t := range c.Trips {
			if t.ID() != tripID {
				continue
			}
			if t.Kind != KindPunctual {
				return &TypeMismatchError{TripID: tripID, Want: KindPunctual, Got: t.Kind}
			}
			p := *t.Punctual
			if p.Status.IsTerminal() {
				return &InvalidTransitionError{TripID: tripID, From: p.Status, To: to}
			}
			p.Status = to
			c.Trips[i] = NewPunctual(p)
			return nil
		}
		return &NotFoundError{VehicleID: m.vehicleID, TripID: tripID}
	})
}

// =============================================================================
// BULK IMPORT
// =============================================================================

// TripSpec is one entry of a weekly pattern import.
type TripSpec struct {
	Hora        string  `json:"hora"`
	KM          float64 `json:"km"`
	KWh         float64 `json:"kwh"`
	Descripcion string  `json:"descripcion"`
}

// ImportWeeklyPattern replaces or extends the recurring schedule from a
// day-name -> specs mapping. Every spec is validated before anything is
// written; one invalid spec fails the whole import with zero persisted
// changes. The result is committed as a single save and a single signal.
func (m *Manager) ImportWeeklyPattern(ctx context.Context, pattern map[string][]TripSpec, clearExisting bool) ([]string, error) {
	// Validate and build everything up front, iterating days in canonical
	// order so import results are deterministic.
	byDay := make(map[Weekday][]TripSpec, len(pattern))
	for name, specs := range pattern {
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		byDay[day] = append(byDay[day], specs...)
	}

	var imported []Trip
	created := m.now()
	for day := Lunes; day <= Domingo; day++ {
		for _, spec := range byDay[day] {
			at, err := ParseClockTime(spec.Hora)
			if err != nil {
				return nil, err
			}
			trip := RecurringTrip{
				ID:          newRecurringID(day),
				Day:         day,
				At:          at,
				DistanceKM:  spec.KM,
				EnergyKWh:   spec.KWh,
				Description: spec.Descripcion,
				Active:      true,
				Created:     created,
			}
			if err := trip.Validate(); err != nil {
				return nil, err
			}
			imported = append(imported, NewRecurring(trip))
		}
	}

	err := m.mutate(ctx, func(c *Collection) error {
		if clearExisting {
			kept := c.Trips[:0]
			for _, t := range c.Trips {
				if t.Kind != KindRecurring {
					kept = append(kept, t)
				}
			}
			c.Trips = kept
		}
		c.Trips = append(c.Trips, imported...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(imported))
	for i, t := range imported {
		ids[i] = t.ID()
	}
	return ids, nil
}

// =============================================================================
// READ-MODIFY-WRITE CORE
// =============================================================================

// mutate runs one serialized load-apply-save cycle and emits one change
// signal after a successful save.
func (m *Manager) mutate(ctx context.Context, apply func(*Collection) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.load(ctx)
	if err != nil {
		return err
	}
	if err := apply(&c); err != nil {
		return err
	}
	if err := m.store.Save(ctx, m.vehicleID, EncodeCollection(c)); err != nil {
		return &PersistenceError{Op: "save", VehicleID: m.vehicleID, Err: err}
	}
	if m.notifier != nil {
		m.notifier.TripsUpdated(m.vehicleID)
	}
	return nil
}

func (m *Manager) load(ctx context.Context) (Collection, error) {
	doc, err := m.store.Load(ctx, m.vehicleID)
	if err != nil {
		return Collection{}, &PersistenceError{Op: "load", VehicleID: m.vehicleID, Err: err}
	}
	c, err := DecodeDocument(m.vehicleID, doc, m.loc)
	if err != nil {
		return Collection{}, &PersistenceError{Op: "load", VehicleID: m.vehicleID, Err: err}
	}
	return c, nil
}

// =============================================================================
// ID GENERATION
// =============================================================================

// Trip ids keep the original human-scannable shape:
//   rec_<first-3-of-day>_<uuid8> and pun_<yyyymmdd>_<uuid8>

func newRecurringID(day Weekday) string {
	return "rec_" + day.String()[:3] + "_" + shortUUID()
}

func newPunctualID(at time.Time) string {
	return "pun_" + at.Format("20060102") + "_" + shortUUID()
}

func shortUUID() string {
	return uuid.NewString()[:8]
}
