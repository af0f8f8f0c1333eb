/*
expand.go - Occurrence expansion

PURPOSE:
  Converts the trip collection into concrete calendar occurrences within a
  rolling forward window. Recurring trips produce one occurrence per
  matching weekday inside the window; punctual trips pass through once if
  pending and in range.

WINDOW SEMANTICS:
  The window is [now, now+windowDays) in continuous time, anchored in now's
  location. A recurring trip whose weekday is today but whose time already
  passed does NOT produce today's occurrence - its next instance is the same
  weekday next week, which still falls inside a 7-day window.

ORDERING:
  Ascending by occurrence time. Same-instant ties break punctual before
  recurring, then id ascending, so output is deterministic.
*/
package trips

import (
	"sort"
	"time"
)

// DefaultWindowDays is the standard forward-looking expansion window.
const DefaultWindowDays = 7

// Expand derives every occurrence in [now, now+windowDays). now must carry
// the vehicle's timezone; all date arithmetic happens in that location.
// Output is freshly computed on every call and never cached.
func Expand(c Collection, now time.Time, windowDays int) []Occurrence {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	loc := now.Location()
	end := now.AddDate(0, 0, windowDays)
	dayZero := StartOfDay(now, loc)

	var out []Occurrence
	for _, t := range c.Trips {
		switch t.Kind {
		case KindRecurring:
			r := t.Recurring
			if !r.Active {
				continue
			}
			// Walk calendar dates from today through the window's last day;
			// the extra day covers next week's instance of today's weekday.
			for i := 0; i <= windowDays; i++ {
				date := dayZero.AddDate(0, 0, i)
				if FromGoWeekday(date.Weekday()) != r.Day {
					continue
				}
				at := CombineDateTime(date, r.At)
				if at.Before(now) || !at.Before(end) {
					continue
				}
				out = append(out, Occurrence{
					TripID:      r.ID,
					At:          at,
					DistanceKM:  r.DistanceKM,
					EnergyKWh:   r.EnergyKWh,
					Description: r.Description,
					Origin:      KindRecurring,
				})
			}

		case KindPunctual:
			p := t.Punctual
			if p.Status != StatusPending {
				continue
			}
			at := p.ScheduledAt.In(loc)
			if at.Before(now) || !at.Before(end) {
				continue
			}
			out = append(out, Occurrence{
				TripID:      p.ID,
				At:          at,
				DistanceKM:  p.DistanceKM,
				EnergyKWh:   p.EnergyKWh,
				Description: p.Description,
				Origin:      KindPunctual,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.At.Equal(b.At) {
			return a.At.Before(b.At)
		}
		if a.Origin != b.Origin {
			return a.Origin == KindPunctual
		}
		return a.TripID < b.TripID
	})
	return out
}
