package agenda

import (
	"time"

	"quadralivre/internal/model"
)

// Reason explains why a slot is unavailable. The string values are part of
// the external contract and shared between listing and booking paths.
type Reason string

const (
	ReasonNone         Reason = "none"
	ReasonPast         Reason = "past"
	ReasonOutsideHours Reason = "outside_hours"
	ReasonClosed       Reason = "closed"
	ReasonBlocking     Reason = "blocking"
	ReasonEvent        Reason = "event"
	ReasonReservation  Reason = "reservation"
)

// Exclusions holds everything that can make a slot unavailable on a given
// date for a given court: blackout windows (court-scoped or global),
// active events, and active reservations for the court.
type Exclusions struct {
	Blackouts    []model.BlackoutWindow
	Events       []model.Event
	Reservations []model.Reservation
}

// dayContext carries the pieces needed to turn "HH:MM" strings into
// concrete times on the evaluated date.
type dayContext struct {
	date time.Time
	loc  *time.Location
}

// EvaluateSlot classifies a single slot against now and the exclusion
// sets. Checks run in fixed priority order; the first match decides the
// reason. Both bulk day listing and single-slot booking validation call
// this same function so offered and accepted slots cannot drift apart.
func EvaluateSlot(slot Interval, now time.Time, date time.Time, loc *time.Location, excl Exclusions) Reason {
	dc := dayContext{date: date, loc: loc}

	// Slots already begun are never offered; "now" exactly at start counts
	// as past.
	if !slot.Start.After(now) {
		return ReasonPast
	}

	for i := range excl.Blackouts {
		b := &excl.Blackouts[i]
		if b.WholeDay() {
			return ReasonBlocking
		}
		bStart, bEnd, ok := dc.window(*b.StartTime, *b.EndTime)
		if ok && Overlaps(slot.Start, slot.End, bStart, bEnd) {
			return ReasonBlocking
		}
	}

	for i := range excl.Events {
		e := &excl.Events[i]
		if !e.IsActive() {
			continue
		}
		eStart, eEnd, ok := dc.window(e.StartTime, e.EndTime)
		if ok && Overlaps(slot.Start, slot.End, eStart, eEnd) {
			return ReasonEvent
		}
	}

	for i := range excl.Reservations {
		r := &excl.Reservations[i]
		if !r.IsActive() {
			continue
		}
		rStart, rEnd, ok := dc.window(r.StartTime, r.EndTime)
		if ok && Overlaps(slot.Start, slot.End, rStart, rEnd) {
			return ReasonReservation
		}
	}

	return ReasonNone
}

func (dc dayContext) window(startClock, endClock string) (time.Time, time.Time, bool) {
	start, err := model.TimeOnDate(dc.date, startClock, dc.loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := model.TimeOnDate(dc.date, endClock, dc.loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
