package trips_test

import (
	"testing"
	"time"

	"github.com/warp/trip-engine/trips"
)

// =============================================================================
// EXPANSION FIXTURES
// =============================================================================

func madrid(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return loc
}

func recurring(id string, day trips.Weekday, hour, minute int, kwh float64) trips.Trip {
	return trips.NewRecurring(trips.RecurringTrip{
		ID:        id,
		Day:       day,
		At:        trips.ClockTime{Hour: hour, Minute: minute},
		EnergyKWh: kwh,
		Active:    true,
	})
}

func punctual(id string, at time.Time, status trips.Status, kwh float64) trips.Trip {
	return trips.NewPunctual(trips.PunctualTrip{
		ID:          id,
		ScheduledAt: at,
		EnergyKWh:   kwh,
		Status:      status,
	})
}

// =============================================================================
// WINDOW SEMANTICS
// =============================================================================

func TestExpand_PassedTimeTodayRollsToNextWeek(t *testing.T) {
	// GIVEN: A Monday 09:00 trip, now = Monday 10:00
	// WHEN: Expanding a 7-day window
	// THEN: Exactly one occurrence, next Monday 09:00 - never today's past slot
	loc := madrid(t)
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, loc) // Monday
	c := trips.Collection{VehicleID: "leaf-1", Trips: []trips.Trip{
		recurring("rec_lun_aaaa", trips.Lunes, 9, 0, 2),
	}}

	occs := trips.Expand(c, now, trips.DefaultWindowDays)
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}
	want := time.Date(2026, 9, 14, 9, 0, 0, 0, loc)
	if !occs[0].At.Equal(want) {
		t.Errorf("occurrence at %v, want next Monday %v", occs[0].At, want)
	}
}

func TestExpand_FutureTimeTodayStaysToday(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, loc) // Monday, before 09:00
	c := trips.Collection{Trips: []trips.Trip{
		recurring("rec_lun_aaaa", trips.Lunes, 9, 0, 2),
	}}

	occs := trips.Expand(c, now, trips.DefaultWindowDays)
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}
	want := time.Date(2026, 9, 7, 9, 0, 0, 0, loc)
	if !occs[0].At.Equal(want) {
		t.Errorf("occurrence at %v, want today %v", occs[0].At, want)
	}
}

func TestExpand_EachActiveRecurringYieldsExactlyOne(t *testing.T) {
	// A 7-day window contains exactly one instance of every weekday.
	loc := madrid(t)
	now := time.Date(2026, 9, 9, 13, 30, 0, 0, loc) // Wednesday
	c := trips.Collection{Trips: []trips.Trip{
		recurring("rec_lun_a", trips.Lunes, 8, 0, 1),
		recurring("rec_mie_b", trips.Miercoles, 8, 0, 1),  // passed today
		recurring("rec_mie_c", trips.Miercoles, 18, 0, 1), // later today
		recurring("rec_dom_d", trips.Domingo, 11, 0, 1),
	}}

	occs := trips.Expand(c, now, trips.DefaultWindowDays)
	if len(occs) != 4 {
		t.Fatalf("expected 4 occurrences (one per trip), got %d", len(occs))
	}
	counts := make(map[string]int)
	for _, occ := range occs {
		counts[occ.TripID]++
		if occ.At.Before(now) {
			t.Errorf("occurrence %s at %v is in the past", occ.TripID, occ.At)
		}
		if !occ.At.Before(now.AddDate(0, 0, 7)) {
			t.Errorf("occurrence %s at %v is past the window end", occ.TripID, occ.At)
		}
	}
	for id, n := range counts {
		if n != 1 {
			t.Errorf("trip %s produced %d occurrences, want 1", id, n)
		}
	}
}

func TestExpand_PausedRecurringProducesNothing(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, loc)
	paused := trips.RecurringTrip{
		ID:     "rec_lun_aaaa",
		Day:    trips.Lunes,
		At:     trips.ClockTime{Hour: 9},
		Active: false,
	}
	c := trips.Collection{Trips: []trips.Trip{trips.NewRecurring(paused)}}

	if occs := trips.Expand(c, now, trips.DefaultWindowDays); len(occs) != 0 {
		t.Errorf("paused trip must produce no occurrences, got %d", len(occs))
	}
}

func TestExpand_TerminalPunctualExcluded(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, loc)
	at := time.Date(2026, 9, 8, 12, 0, 0, 0, loc)
	c := trips.Collection{Trips: []trips.Trip{
		punctual("pun_a", at, trips.StatusPending, 3),
		punctual("pun_b", at, trips.StatusCompleted, 3),
		punctual("pun_c", at, trips.StatusCancelled, 3),
	}}

	occs := trips.Expand(c, now, trips.DefaultWindowDays)
	if len(occs) != 1 || occs[0].TripID != "pun_a" {
		t.Errorf("only the pending punctual trip should expand, got %v", occs)
	}
}

func TestExpand_PunctualOutsideWindowExcluded(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, loc)
	c := trips.Collection{Trips: []trips.Trip{
		punctual("pun_past", now.Add(-time.Hour), trips.StatusPending, 3),
		punctual("pun_at_end", now.AddDate(0, 0, 7), trips.StatusPending, 3),
		punctual("pun_beyond", now.AddDate(0, 0, 9), trips.StatusPending, 3),
	}}

	if occs := trips.Expand(c, now, trips.DefaultWindowDays); len(occs) != 0 {
		t.Errorf("past, window-end and beyond-window trips must all be excluded, got %v", occs)
	}
}

// =============================================================================
// ORDERING
// =============================================================================

func TestExpand_OrderingIsDeterministic(t *testing.T) {
	// GIVEN: A recurring and a punctual occurrence at the same instant, plus
	//        two recurring trips tied with each other
	// THEN: Time ascending, punctual wins same-instant ties, then id order
	loc := madrid(t)
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, loc) // Monday
	sameInstant := time.Date(2026, 9, 7, 9, 0, 0, 0, loc)
	c := trips.Collection{Trips: []trips.Trip{
		recurring("rec_lun_zzz", trips.Lunes, 9, 0, 1),
		recurring("rec_lun_aaa", trips.Lunes, 9, 0, 1),
		punctual("pun_x", sameInstant, trips.StatusPending, 1),
		recurring("rec_mar_b", trips.Martes, 7, 0, 1),
	}}

	occs := trips.Expand(c, now, trips.DefaultWindowDays)
	gotIDs := make([]string, len(occs))
	for i, occ := range occs {
		gotIDs[i] = occ.TripID
	}
	want := []string{"pun_x", "rec_lun_aaa", "rec_lun_zzz", "rec_mar_b"}
	if len(gotIDs) != len(want) {
		t.Fatalf("expected %d occurrences, got %v", len(want), gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("ordering mismatch: got %v, want %v", gotIDs, want)
		}
	}
}

func TestExpand_EmptyCollection(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, loc)
	if occs := trips.Expand(trips.Collection{}, now, trips.DefaultWindowDays); len(occs) != 0 {
		t.Errorf("empty collection must expand to nothing, got %v", occs)
	}
}
