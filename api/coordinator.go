/*
coordinator.go - Summary coordinator (push-model refresh)

PURPOSE:
  Keeps a cached summary of derived values per vehicle. The coordinator
  subscribes to the trip dispatcher and recomputes a vehicle's summary
  synchronously whenever that vehicle's trips change - correctness never
  depends on a polling interval. A short staleness bound additionally
  refreshes on read, because derived values also drift as the clock moves
  past deadlines with no mutation at all.

DESIGN:
  - One cache entry per vehicle, guarded by RWMutex
  - Change signal -> recompute now, replace cache entry
  - Read with entry older than MaxAge -> recompute on demand
  - All timestamps are taken in the vehicle's configured timezone
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/trip-engine/trips"
	"github.com/warp/trip-engine/vehicle"
)

// DefaultSummaryMaxAge bounds how stale a cached summary may be served.
const DefaultSummaryMaxAge = 30 * time.Second

// SummaryCoordinator caches derived values and refreshes them on change
// signals.
type SummaryCoordinator struct {
	registry *vehicle.Registry
	MaxAge   time.Duration

	mu     sync.RWMutex
	cache  map[string]cachedSummary
	cancel func()
}

type cachedSummary struct {
	dto SummaryDTO
	at  time.Time
}

// NewSummaryCoordinator subscribes to the dispatcher. Call Stop to detach.
func NewSummaryCoordinator(registry *vehicle.Registry, dispatcher *trips.Dispatcher) *SummaryCoordinator {
	sc := &SummaryCoordinator{
		registry: registry,
		MaxAge:   DefaultSummaryMaxAge,
		cache:    make(map[string]cachedSummary),
	}
	if dispatcher != nil {
		sc.cancel = dispatcher.Subscribe(sc.onTripsUpdated)
	}
	return sc
}

// Stop detaches the coordinator from the dispatcher.
func (sc *SummaryCoordinator) Stop() {
	if sc.cancel != nil {
		sc.cancel()
	}
}

func (sc *SummaryCoordinator) onTripsUpdated(vehicleID string) {
	if _, err := sc.refresh(context.Background(), vehicleID); err != nil {
		log.Printf("[Coordinator] Failed to refresh summary for %s: %v", vehicleID, err)
	}
}

// Summary returns the cached summary, recomputing when absent or stale.
func (sc *SummaryCoordinator) Summary(ctx context.Context, vehicleID string) (SummaryDTO, error) {
	sc.mu.RLock()
	entry, ok := sc.cache[vehicleID]
	sc.mu.RUnlock()
	if ok && time.Since(entry.at) < sc.MaxAge {
		return entry.dto, nil
	}
	return sc.refresh(ctx, vehicleID)
}

// refresh recomputes one vehicle's summary from a fresh collection snapshot.
func (sc *SummaryCoordinator) refresh(ctx context.Context, vehicleID string) (SummaryDTO, error) {
	mgr, err := sc.registry.Manager(vehicleID)
	if err != nil {
		return SummaryDTO{}, err
	}
	profile, err := sc.registry.Profile(vehicleID)
	if err != nil {
		return SummaryDTO{}, err
	}

	c, err := mgr.Snapshot(ctx)
	if err != nil {
		return SummaryDTO{}, err
	}

	now := time.Now().In(mgr.Location())
	dto := SummaryDTO{
		VehicleID:      vehicleID,
		KWhNeededToday: trips.KwhNeededToday(c, now),
		RecurringTrips: len(c.RecurringTrips()),
		PunctualTrips:  len(c.PunctualTrips()),
		ComputedAt:     now.Format(time.RFC3339),
	}
	if occ, ok := trips.NextTrip(c, now); ok {
		id, desc := occ.TripID, occ.Description
		deadline := occ.At.Format(time.RFC3339)
		dto.NextTripID = &id
		dto.NextTripDescription = &desc
		dto.NextDeadline = &deadline
	}
	hours, err := trips.HoursNeededToday(c, now, profile.ChargingPowerKW)
	if err != nil {
		return SummaryDTO{}, err
	}
	dto.HoursNeededToday = hours

	sc.mu.Lock()
	sc.cache[vehicleID] = cachedSummary{dto: dto, at: time.Now()}
	sc.mu.Unlock()
	return dto, nil
}
