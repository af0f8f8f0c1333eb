/*
store.go - Persistence contract and wire document codec

PURPOSE:
  Defines the interface between the trip engine and whatever persists trip
  documents. The engine depends only on Load/Save of an opaque
  JSON-serializable document per vehicle, never on a specific backend.

CONTRACT:
  Load(vehicleID) returns an EMPTY document (not an error) when the vehicle
  has no stored trips yet. Save replaces the full document atomically from
  the caller's perspective. Backends must not hand out live references: each
  Load result is an independent snapshot.

WIRE FORMAT:
  {"trips": [ {"id": ..., "tipo": "recurrente"|"puntual", ...}, ... ]}
  Field names are the original service vocabulary (dia_semana, hora, km,
  kwh, descripcion, activo, estado, datetime) so existing stored data stays
  readable.

IMPLEMENTATIONS:
  - trips/store/memory.go: In-memory for tests and development
  - store/sqlite/sqlite.go: Production SQLite document store
*/
package trips

import (
	"context"
	"fmt"
	"time"
)

// Store persists one trip document per vehicle.
type Store interface {
	// Load returns the stored document, or an empty document if the vehicle
	// has none yet.
	Load(ctx context.Context, vehicleID string) (Document, error)

	// Save replaces the vehicle's document with the given snapshot.
	Save(ctx context.Context, vehicleID string, doc Document) error
}

// =============================================================================
// WIRE DOCUMENT
// =============================================================================

// Document is the JSON-serializable snapshot held by the store.
type Document struct {
	Trips []TripRecord `json:"trips"`
}

// TripRecord is one trip on the wire. Kind-specific fields are omitted for
// the other kind.
type TripRecord struct {
	ID          string  `json:"id"`
	Tipo        string  `json:"tipo"`
	DiaSemana   string  `json:"dia_semana,omitempty"`
	Hora        string  `json:"hora,omitempty"`
	Datetime    string  `json:"datetime,omitempty"`
	KM          float64 `json:"km"`
	KWh         float64 `json:"kwh"`
	Descripcion string  `json:"descripcion"`
	Activo      *bool   `json:"activo,omitempty"`
	Estado      string  `json:"estado,omitempty"`
	Creado      string  `json:"creado,omitempty"`
}

// EncodeCollection renders a collection into the wire document.
func EncodeCollection(c Collection) Document {
	doc := Document{Trips: make([]TripRecord, 0, len(c.Trips))}
	for _, t := range c.Trips {
		switch t.Kind {
		case KindRecurring:
			r := t.Recurring
			active := r.Active
			doc.Trips = append(doc.Trips, TripRecord{
				ID:          r.ID,
				Tipo:        string(KindRecurring),
				DiaSemana:   r.Day.String(),
				Hora:        r.At.String(),
				KM:          r.DistanceKM,
				KWh:         r.EnergyKWh,
				Descripcion: r.Description,
				Activo:      &active,
				Creado:      formatCreated(r.Created),
			})
		case KindPunctual:
			p := t.Punctual
			doc.Trips = append(doc.Trips, TripRecord{
				ID:          p.ID,
				Tipo:        string(KindPunctual),
				Datetime:    FormatPunctualDateTime(p.ScheduledAt),
				KM:          p.DistanceKM,
				KWh:         p.EnergyKWh,
				Descripcion: p.Description,
				Estado:      string(p.Status),
				Creado:      formatCreated(p.Created),
			})
		}
	}
	return doc
}

// DecodeDocument parses a wire document into a collection, locating punctual
// timestamps in the vehicle's timezone. A record the codec cannot interpret
// is an error, never silently dropped.
func DecodeDocument(vehicleID string, doc Document, loc *time.Location) (Collection, error) {
	c := Collection{VehicleID: vehicleID}
	for _, rec := range doc.Trips {
		switch Kind(rec.Tipo) {
		case KindRecurring:
			day, err := ParseWeekday(rec.DiaSemana)
			if err != nil {
				return Collection{}, fmt.Errorf("trip %s: %w", rec.ID, err)
			}
			at, err := ParseClockTime(rec.Hora)
			if err != nil {
				return Collection{}, fmt.Errorf("trip %s: %w", rec.ID, err)
			}
			active := true
			if rec.Activo != nil {
				active = *rec.Activo
			}
			c.Trips = append(c.Trips, NewRecurring(RecurringTrip{
				ID:          rec.ID,
				Day:         day,
				At:          at,
				DistanceKM:  rec.KM,
				EnergyKWh:   rec.KWh,
				Description: rec.Descripcion,
				Active:      active,
				Created:     parseCreated(rec.Creado, loc),
			}))
		case KindPunctual:
			at, err := ParsePunctualDateTime(rec.Datetime, loc)
			if err != nil {
				return Collection{}, fmt.Errorf("trip %s: %w", rec.ID, err)
			}
			status := Status(rec.Estado)
			if status == "" {
				status = StatusPending
			}
			p := PunctualTrip{
				ID:          rec.ID,
				ScheduledAt: at,
				DistanceKM:  rec.KM,
				EnergyKWh:   rec.KWh,
				Description: rec.Descripcion,
				Status:      status,
				Created:     parseCreated(rec.Creado, loc),
			}
			if err := p.Validate(); err != nil {
				return Collection{}, fmt.Errorf("trip %s: %w", rec.ID, err)
			}
			c.Trips = append(c.Trips, NewPunctual(p))
		default:
			return Collection{}, &ValidationError{Field: "tipo", Value: rec.Tipo, Reason: "unknown trip kind"}
		}
	}
	return c, nil
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseCreated(s string, loc *time.Location) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.In(loc)
}
