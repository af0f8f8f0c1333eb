package vehicle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/warp/trip-engine/trips"
)

// ErrUnknownVehicle is returned when no profile is registered for an id.
var ErrUnknownVehicle = errors.New("unknown vehicle")

// ErrVehicleExists is returned when registering an id twice.
var ErrVehicleExists = errors.New("vehicle already registered")

// ProfileStore persists vehicle profiles.
type ProfileStore interface {
	LoadProfiles(ctx context.Context) ([]Profile, error)
	SaveProfile(ctx context.Context, p Profile) error
}

// Registry owns one trips.Manager per registered vehicle. Collections are
// fully independent between vehicles; the registry only maps ids to managers
// and never shares trip state across them.
type Registry struct {
	tripStore trips.Store
	profiles  ProfileStore
	notifier  trips.Notifier

	mu       sync.RWMutex
	byID     map[string]Profile
	managers map[string]*trips.Manager
}

// NewRegistry wires the registry against its stores. notifier may be nil.
func NewRegistry(tripStore trips.Store, profiles ProfileStore, notifier trips.Notifier) *Registry {
	return &Registry{
		tripStore: tripStore,
		profiles:  profiles,
		notifier:  notifier,
		byID:      make(map[string]Profile),
		managers:  make(map[string]*trips.Manager),
	}
}

// LoadAll hydrates profiles and managers from the profile store. Called once
// at startup.
func (r *Registry) LoadAll(ctx context.Context) error {
	stored, err := r.profiles.LoadProfiles(ctx)
	if err != nil {
		return fmt.Errorf("loading vehicle profiles: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range stored {
		p = p.WithDefaults()
		loc, err := p.Location()
		if err != nil {
			return fmt.Errorf("vehicle %s: %w", p.ID, err)
		}
		r.byID[p.ID] = p
		r.managers[p.ID] = trips.NewManager(r.tripStore, p.ID, loc, r.notifier)
	}
	return nil
}

// Register validates, persists and activates a new vehicle profile.
func (r *Registry) Register(ctx context.Context, p Profile) (Profile, error) {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrVehicleExists, p.ID)
	}
	if err := r.profiles.SaveProfile(ctx, p); err != nil {
		return Profile{}, &trips.PersistenceError{Op: "save", VehicleID: p.ID, Err: err}
	}

	loc, _ := p.Location() // already validated
	r.byID[p.ID] = p
	r.managers[p.ID] = trips.NewManager(r.tripStore, p.ID, loc, r.notifier)
	return p, nil
}

// Manager returns the trip manager for a registered vehicle.
func (r *Registry) Manager(vehicleID string) (*trips.Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.managers[vehicleID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVehicle, vehicleID)
	}
	return m, nil
}

// Profile returns the stored profile for a vehicle.
func (r *Registry) Profile(vehicleID string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[vehicleID]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownVehicle, vehicleID)
	}
	return p, nil
}

// List returns all registered profiles.
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Profile, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out
}
