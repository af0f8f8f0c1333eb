package vehicle_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/warp/trip-engine/trips"
	"github.com/warp/trip-engine/trips/store"
	"github.com/warp/trip-engine/vehicle"
)

// memProfiles is an in-memory ProfileStore for tests.
type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]vehicle.Profile
	saveErr  error
}

func newMemProfiles() *memProfiles {
	return &memProfiles{profiles: make(map[string]vehicle.Profile)}
}

func (s *memProfiles) LoadProfiles(context.Context) ([]vehicle.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vehicle.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *memProfiles) SaveProfile(_ context.Context, p vehicle.Profile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	s.profiles[p.ID] = p
	s.mu.Unlock()
	return nil
}

func newTestRegistry() (*vehicle.Registry, *memProfiles) {
	profiles := newMemProfiles()
	return vehicle.NewRegistry(store.NewMemory(), profiles, nil), profiles
}

// =============================================================================
// PROFILE DEFAULTS AND VALIDATION
// =============================================================================

func TestProfile_WithDefaults(t *testing.T) {
	p := vehicle.Profile{ID: "leaf-1", Name: "Leaf"}.WithDefaults()

	if p.Type != vehicle.TypeEV {
		t.Errorf("default type = %s, want ev", p.Type)
	}
	if p.ChargingPowerKW != vehicle.DefaultChargingPowerKW {
		t.Errorf("default charging power = %v, want %v", p.ChargingPowerKW, vehicle.DefaultChargingPowerKW)
	}
	if p.KWhPerKM != vehicle.DefaultKWhPerKM {
		t.Errorf("default consumption = %v, want %v", p.KWhPerKM, vehicle.DefaultKWhPerKM)
	}
	if p.SafetyMarginPercent != vehicle.DefaultSafetyMarginPercent {
		t.Errorf("default safety margin = %v, want %v", p.SafetyMarginPercent, vehicle.DefaultSafetyMarginPercent)
	}
}

func TestProfile_ValidationFailures(t *testing.T) {
	base := vehicle.Profile{ID: "leaf-1", Type: vehicle.TypeEV, ChargingPowerKW: 3.6}

	cases := []struct {
		name   string
		mutate func(*vehicle.Profile)
	}{
		{"missing id", func(p *vehicle.Profile) { p.ID = "" }},
		{"bad type", func(p *vehicle.Profile) { p.Type = "diesel" }},
		{"zero power", func(p *vehicle.Profile) { p.ChargingPowerKW = 0 }},
		{"negative battery", func(p *vehicle.Profile) { p.BatteryCapacityKWh = -10 }},
		{"margin over 100", func(p *vehicle.Profile) { p.SafetyMarginPercent = 150 }},
		{"bad timezone", func(p *vehicle.Profile) { p.Timezone = "Mars/Olympus" }},
	}
	for _, tc := range cases {
		p := base
		tc.mutate(&p)
		if err := p.Validate(); !errors.Is(err, trips.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg, profiles := newTestRegistry()
	ctx := context.Background()

	p, err := reg.Register(ctx, vehicle.Profile{ID: "leaf-1", Name: "Leaf", Timezone: "Europe/Madrid"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if p.ChargingPowerKW != vehicle.DefaultChargingPowerKW {
		t.Errorf("registered profile missing defaults: %+v", p)
	}
	if _, ok := profiles.profiles["leaf-1"]; !ok {
		t.Error("registered profile not persisted")
	}

	mgr, err := reg.Manager("leaf-1")
	if err != nil {
		t.Fatalf("Manager failed: %v", err)
	}
	if mgr.VehicleID() != "leaf-1" {
		t.Errorf("manager bound to %s, want leaf-1", mgr.VehicleID())
	}
	if mgr.Location().String() != "Europe/Madrid" {
		t.Errorf("manager timezone = %s, want Europe/Madrid", mgr.Location())
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	if _, err := reg.Register(ctx, vehicle.Profile{ID: "leaf-1"}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := reg.Register(ctx, vehicle.Profile{ID: "leaf-1"}); !errors.Is(err, vehicle.ErrVehicleExists) {
		t.Fatalf("expected ErrVehicleExists, got %v", err)
	}
}

func TestRegistry_UnknownVehicle(t *testing.T) {
	reg, _ := newTestRegistry()

	if _, err := reg.Manager("ghost"); !errors.Is(err, vehicle.ErrUnknownVehicle) {
		t.Errorf("Manager: expected ErrUnknownVehicle, got %v", err)
	}
	if _, err := reg.Profile("ghost"); !errors.Is(err, vehicle.ErrUnknownVehicle) {
		t.Errorf("Profile: expected ErrUnknownVehicle, got %v", err)
	}
}

func TestRegistry_LoadAllHydratesManagers(t *testing.T) {
	// GIVEN: Two previously persisted profiles
	// WHEN: A fresh registry loads them at startup
	// THEN: Both vehicles are addressable with their own managers
	profiles := newMemProfiles()
	tripStore := store.NewMemory()
	ctx := context.Background()

	seed := vehicle.NewRegistry(tripStore, profiles, nil)
	if _, err := seed.Register(ctx, vehicle.Profile{ID: "leaf-1", Timezone: "Europe/Madrid"}); err != nil {
		t.Fatal(err)
	}
	if _, err := seed.Register(ctx, vehicle.Profile{ID: "zoe-2"}); err != nil {
		t.Fatal(err)
	}

	fresh := vehicle.NewRegistry(tripStore, profiles, nil)
	if err := fresh.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if got := len(fresh.List()); got != 2 {
		t.Fatalf("expected 2 profiles after hydration, got %d", got)
	}
	for _, id := range []string{"leaf-1", "zoe-2"} {
		if _, err := fresh.Manager(id); err != nil {
			t.Errorf("no manager for hydrated vehicle %s: %v", id, err)
		}
	}
}

func TestRegistry_CollectionsAreIndependent(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	for _, id := range []string{"leaf-1", "zoe-2"} {
		if _, err := reg.Register(ctx, vehicle.Profile{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	leaf, _ := reg.Manager("leaf-1")
	zoe, _ := reg.Manager("zoe-2")

	if _, err := leaf.AddRecurring(ctx, "lunes", "08:00", 10, 2, ""); err != nil {
		t.Fatal(err)
	}

	c, err := zoe.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Trips) != 0 {
		t.Errorf("trip added to leaf-1 leaked into zoe-2: %d trips", len(c.Trips))
	}
}

func TestRegistry_RegisterPersistFailure(t *testing.T) {
	reg, profiles := newTestRegistry()
	profiles.saveErr = errors.New("disk full")

	_, err := reg.Register(context.Background(), vehicle.Profile{ID: "leaf-1"})
	if !errors.Is(err, trips.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	// The vehicle must not be activated when persistence failed.
	if _, err := reg.Manager("leaf-1"); !errors.Is(err, vehicle.ErrUnknownVehicle) {
		t.Errorf("failed registration must not activate the vehicle, got %v", err)
	}
}
