/*
calc.go - Deadline and energy derivation

PURPOSE:
  Pure read-only calculations over a collection snapshot:
  - NextTrip / NextDeadline: nearest future occurrence within the window
  - KwhNeededToday: today's full-day energy total (not "remaining")
  - HoursNeededToday: ceiling-rounded charging duration

ROUNDING:
  Hours round UP, never down, so the derived charging duration never
  undershoots the real energy need. Division runs through decimal to keep
  boundaries like 14.4 < 15.5 <= 21.6 exact.

TIMEZONE:
  "Today" is the calendar date of now in now's location. The full-day total
  anchors expansion at local midnight so occurrences earlier today still
  count; terminal punctual trips never do.
*/
package trips

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NextTrip returns the occurrence with the smallest future timestamp inside
// the default window, or ok=false when the expanded set is empty. This is
// the sole selection rule; expansion ordering already provides determinism.
func NextTrip(c Collection, now time.Time) (Occurrence, bool) {
	occs := Expand(c, now, DefaultWindowDays)
	if len(occs) == 0 {
		return Occurrence{}, false
	}
	return occs[0], true
}

// NextDeadline returns the timestamp of the next occurrence, or ok=false.
func NextDeadline(c Collection, now time.Time) (time.Time, bool) {
	occ, ok := NextTrip(c, now)
	if !ok {
		return time.Time{}, false
	}
	return occ.At, true
}

// KwhNeededToday sums the energy of every occurrence on today's calendar
// date, including occurrences already in the past earlier today. Returns 0
// when nothing is planned.
func KwhNeededToday(c Collection, now time.Time) float64 {
	loc := now.Location()
	dayStart := StartOfDay(now, loc)

	total := decimal.Zero
	for _, occ := range Expand(c, dayStart, DefaultWindowDays) {
		if SameLocalDate(occ.At, now, loc) {
			total = total.Add(decimal.NewFromFloat(occ.EnergyKWh))
		}
	}
	f, _ := total.Float64()
	return f
}

// HoursNeededToday converts today's energy need into whole charging hours,
// rounded up. A non-positive charging power is out of domain.
func HoursNeededToday(c Collection, now time.Time, chargingPowerKW float64) (int, error) {
	if chargingPowerKW <= 0 {
		return 0, fmt.Errorf("%w: charging power must be positive, got %v kW", ErrInvalidArgument, chargingPowerKW)
	}
	kwh := KwhNeededToday(c, now)
	if kwh <= 0 {
		return 0, nil
	}
	hours := decimal.NewFromFloat(kwh).
		Div(decimal.NewFromFloat(chargingPowerKW)).
		Ceil().
		IntPart()
	return int(hours), nil
}
