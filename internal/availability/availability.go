// Package availability decides whether a candidate slot collides with the
// slots already held by active bookings.
package availability

import "time"

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, span time.Duration) Interval {
	return Interval{Start: start, End: start.Add(span)}
}

// Empty reports whether the interval covers no instant.
func (i Interval) Empty() bool {
	return !i.Start.Before(i.End)
}

// Overlaps uses half-open semantics, so a booking ending at 12:00 does not
// collide with one starting at 12:00.
func (i Interval) Overlaps(other Interval) bool {
	if i.Empty() || other.Empty() {
		return false
	}
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Conflicts returns the occupied intervals that overlap candidate.
func Conflicts(candidate Interval, occupied []Interval) []Interval {
	var out []Interval
	for _, o := range occupied {
		if candidate.Overlaps(o) {
			out = append(out, o)
		}
	}
	return out
}

// Free reports whether candidate collides with nothing in occupied.
func Free(candidate Interval, occupied []Interval) bool {
	return len(Conflicts(candidate, occupied)) == 0
}
