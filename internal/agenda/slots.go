package agenda

import "time"

// Interval is a candidate booking slot.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Slots generates the ordered slot grid between open and close. The grid
// is anchored at open so boundaries are stable across queries; a trailing
// slot that would run past close is dropped, never truncated.
func Slots(open, close time.Time, duration time.Duration) ([]Interval, error) {
	if duration <= 0 {
		return nil, ErrInvalidSlotDuration
	}

	var slots []Interval
	for cursor := open; cursor.Before(close); cursor = cursor.Add(duration) {
		end := cursor.Add(duration)
		if end.After(close) {
			break
		}
		slots = append(slots, Interval{Start: cursor, End: end})
	}
	return slots, nil
}

// AlignedToGrid reports whether start falls on a slot boundary of the grid
// anchored at open. Client-submitted start times must match a generated
// boundary exactly.
func AlignedToGrid(open, start time.Time, duration time.Duration) bool {
	if duration <= 0 {
		return false
	}
	diff := start.Sub(open)
	return diff >= 0 && diff%duration == 0
}
