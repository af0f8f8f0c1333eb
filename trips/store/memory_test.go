package store_test

import (
	"context"
	"testing"

	"github.com/warp/trip-engine/trips"
	"github.com/warp/trip-engine/trips/store"
)

func TestMemory_LoadUnknownVehicleIsEmpty(t *testing.T) {
	m := store.NewMemory()

	doc, err := m.Load(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Trips) != 0 {
		t.Errorf("unknown vehicle should yield an empty document, got %d trips", len(doc.Trips))
	}
}

func TestMemory_SaveThenLoadRoundTrip(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	active := true

	in := trips.Document{Trips: []trips.TripRecord{
		{ID: "rec_lun_abc", Tipo: "recurrente", DiaSemana: "lunes", Hora: "08:30", KM: 20, KWh: 3.5, Descripcion: "colegio", Activo: &active},
		{ID: "pun_20260904_def", Tipo: "puntual", Datetime: "2026-09-04T18:30:00", KM: 120, KWh: 18.5, Estado: "pendiente"},
	}}

	if err := m.Save(ctx, "leaf-1", in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	out, err := m.Load(ctx, "leaf-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(out.Trips) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out.Trips))
	}
	if out.Trips[0].ID != "rec_lun_abc" || out.Trips[0].Hora != "08:30" {
		t.Errorf("recurring record mangled: %+v", out.Trips[0])
	}
	if out.Trips[1].Datetime != "2026-09-04T18:30:00" || out.Trips[1].Estado != "pendiente" {
		t.Errorf("punctual record mangled: %+v", out.Trips[1])
	}
}

func TestMemory_LoadReturnsIndependentSnapshots(t *testing.T) {
	// Mutating a loaded document must not leak into subsequent loads.
	m := store.NewMemory()
	ctx := context.Background()

	if err := m.Save(ctx, "leaf-1", trips.Document{Trips: []trips.TripRecord{
		{ID: "rec_lun_abc", Tipo: "recurrente", DiaSemana: "lunes", Hora: "08:30"},
	}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	first, _ := m.Load(ctx, "leaf-1")
	first.Trips[0].Hora = "23:59"

	second, _ := m.Load(ctx, "leaf-1")
	if second.Trips[0].Hora != "08:30" {
		t.Error("loaded snapshot aliases stored state")
	}
}

func TestMemory_VehiclesAreIsolated(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	if err := m.Save(ctx, "leaf-1", trips.Document{Trips: []trips.TripRecord{
		{ID: "rec_lun_abc", Tipo: "recurrente", DiaSemana: "lunes", Hora: "08:30"},
	}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	other, err := m.Load(ctx, "zoe-2")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(other.Trips) != 0 {
		t.Error("documents must be per-vehicle")
	}
}
