package trips_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/trip-engine/trips"
)

// =============================================================================
// WIRE DOCUMENT DECODING
// =============================================================================

func TestDecodeDocument_LegacyDefaults(t *testing.T) {
	// Documents written before activo/estado existed decode with the
	// original defaults: recurring active, punctual pending.
	loc := madrid(t)
	doc := trips.Document{Trips: []trips.TripRecord{
		{ID: "rec_lun_old", Tipo: "recurrente", DiaSemana: "lunes", Hora: "08:30"},
		{ID: "pun_old", Tipo: "puntual", Datetime: "2026-09-04T18:30:00"},
	}}

	c, err := trips.DecodeDocument("leaf-1", doc, loc)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	r, _ := c.Find("rec_lun_old")
	if !r.Recurring.Active {
		t.Error("missing activo must default to active")
	}
	p, _ := c.Find("pun_old")
	if p.Punctual.Status != trips.StatusPending {
		t.Error("missing estado must default to pending")
	}
}

func TestDecodeDocument_PunctualInVehicleTimezone(t *testing.T) {
	loc := madrid(t)
	doc := trips.Document{Trips: []trips.TripRecord{
		{ID: "pun_x", Tipo: "puntual", Datetime: "2026-09-04T18:30:00", Estado: "pendiente"},
	}}

	c, err := trips.DecodeDocument("leaf-1", doc, loc)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	p, _ := c.Find("pun_x")
	want := time.Date(2026, 9, 4, 18, 30, 0, 0, loc)
	if !p.Punctual.ScheduledAt.Equal(want) {
		t.Errorf("ScheduledAt = %v, want %v in vehicle timezone", p.Punctual.ScheduledAt, want)
	}
}

func TestDecodeDocument_RejectsBadRecords(t *testing.T) {
	loc := madrid(t)
	cases := []struct {
		name string
		rec  trips.TripRecord
	}{
		{"unknown kind", trips.TripRecord{ID: "x", Tipo: "mensual"}},
		{"bad day", trips.TripRecord{ID: "x", Tipo: "recurrente", DiaSemana: "monday", Hora: "08:00"}},
		{"bad hour", trips.TripRecord{ID: "x", Tipo: "recurrente", DiaSemana: "lunes", Hora: "8h"}},
		{"bad datetime", trips.TripRecord{ID: "x", Tipo: "puntual", Datetime: "ayer"}},
		{"bad status", trips.TripRecord{ID: "x", Tipo: "puntual", Datetime: "2026-09-04T18:30:00", Estado: "perdido"}},
	}
	for _, tc := range cases {
		doc := trips.Document{Trips: []trips.TripRecord{tc.rec}}
		if _, err := trips.DecodeDocument("leaf-1", doc, loc); !errors.Is(err, trips.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestEncodeDecode_PreservesSemantics(t *testing.T) {
	// GIVEN: A collection with a paused recurring and a completed punctual trip
	// WHEN: Encoding to the wire document and decoding back
	// THEN: Pause state, status, and timestamps survive unchanged
	loc := madrid(t)
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, loc)
	c := trips.Collection{VehicleID: "leaf-1", Trips: []trips.Trip{
		trips.NewRecurring(trips.RecurringTrip{
			ID: "rec_mie_a", Day: trips.Miercoles, At: trips.ClockTime{Hour: 8, Minute: 30},
			DistanceKM: 20, EnergyKWh: 3.5, Description: "colegio", Active: false, Created: created,
		}),
		trips.NewPunctual(trips.PunctualTrip{
			ID: "pun_b", ScheduledAt: time.Date(2026, 9, 4, 18, 30, 0, 0, loc),
			DistanceKM: 120, EnergyKWh: 18.5, Status: trips.StatusCompleted, Created: created,
		}),
	}}

	back, err := trips.DecodeDocument("leaf-1", trips.EncodeCollection(c), loc)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	r, _ := back.Find("rec_mie_a")
	if r.Recurring.Active {
		t.Error("paused state lost on the wire")
	}
	if r.Recurring.Day != trips.Miercoles || r.Recurring.At.String() != "08:30" {
		t.Errorf("schedule mangled: %s %s", r.Recurring.Day, r.Recurring.At)
	}
	if !r.Recurring.Created.Equal(created) {
		t.Errorf("created timestamp mangled: %v", r.Recurring.Created)
	}

	p, _ := back.Find("pun_b")
	if p.Punctual.Status != trips.StatusCompleted {
		t.Error("terminal status lost on the wire")
	}
	if !p.Punctual.ScheduledAt.Equal(c.Trips[1].Punctual.ScheduledAt) {
		t.Errorf("scheduled time mangled: %v", p.Punctual.ScheduledAt)
	}
}
