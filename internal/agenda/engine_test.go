package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quadralivre/internal/model"
)

func clock(h, m int) time.Time {
	return time.Date(2026, 1, 5, h, m, 0, 0, time.UTC)
}

func TestSlotsFullDay(t *testing.T) {
	slots, err := Slots(clock(8, 0), clock(22, 0), time.Hour)
	require.NoError(t, err)
	require.Len(t, slots, 14)
	assert.Equal(t, clock(8, 0), slots[0].Start)
	assert.Equal(t, clock(9, 0), slots[0].End)
	assert.Equal(t, clock(21, 0), slots[13].Start)
	assert.Equal(t, clock(22, 0), slots[13].End)
}

func TestSlotsTrailingPartialDropped(t *testing.T) {
	slots, err := Slots(clock(8, 0), clock(22, 0), 90*time.Minute)
	require.NoError(t, err)
	require.Len(t, slots, 9)
	// The last full slot ends 21:30; the 21:30-23:00 remainder is dropped.
	assert.Equal(t, clock(21, 30), slots[8].End)
}

func TestSlotsInvalidDuration(t *testing.T) {
	_, err := Slots(clock(8, 0), clock(22, 0), 0)
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)

	_, err = Slots(clock(8, 0), clock(22, 0), -time.Hour)
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)
}

func TestSlotsEmptyWhenOpenAfterClose(t *testing.T) {
	slots, err := Slots(clock(22, 0), clock(8, 0), time.Hour)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAlignedToGrid(t *testing.T) {
	open := clock(8, 0)
	assert.True(t, AlignedToGrid(open, clock(8, 0), time.Hour))
	assert.True(t, AlignedToGrid(open, clock(14, 0), time.Hour))
	assert.False(t, AlignedToGrid(open, clock(8, 30), time.Hour))
	assert.False(t, AlignedToGrid(open, clock(7, 0), time.Hour))
	assert.True(t, AlignedToGrid(open, clock(9, 30), 90*time.Minute))
	assert.False(t, AlignedToGrid(open, clock(9, 0), 90*time.Minute))
}

func TestOverlapsHalfOpen(t *testing.T) {
	// Adjacent intervals share a boundary but do not overlap.
	assert.False(t, Overlaps(clock(8, 0), clock(9, 0), clock(9, 0), clock(10, 0)))
	assert.False(t, Overlaps(clock(9, 0), clock(10, 0), clock(8, 0), clock(9, 0)))
	assert.True(t, Overlaps(clock(8, 0), clock(9, 0), clock(8, 30), clock(9, 30)))
	assert.True(t, Overlaps(clock(8, 0), clock(12, 0), clock(9, 0), clock(10, 0)))
	assert.True(t, Overlaps(clock(9, 0), clock(10, 0), clock(8, 0), clock(12, 0)))
}

func strPtr(s string) *string { return &s }

func TestResolveDayExceptionWins(t *testing.T) {
	cfg := &model.ScheduleConfig{OpeningTime: "08:00", ClosingTime: "22:00", ActiveWeekdays: []int{1, 2, 3, 4, 5}}

	exc := &model.ScheduleException{Date: "2026-01-05", OpeningTime: strPtr("10:00"), ClosingTime: strPtr("14:00"), Reason: "maintenance"}
	hours := ResolveDay(1, cfg, exc)
	assert.False(t, hours.Closed)
	assert.Equal(t, "10:00", hours.OpeningTime)
	assert.Equal(t, "14:00", hours.ClosingTime)
	assert.Equal(t, SourceException, hours.Source)
	assert.Equal(t, "maintenance", hours.Reason)

	// An exception overrides even on an inactive weekday.
	hours = ResolveDay(6, cfg, exc)
	assert.False(t, hours.Closed)
	assert.Equal(t, SourceException, hours.Source)
}

func TestResolveDayClosedException(t *testing.T) {
	cfg := &model.ScheduleConfig{OpeningTime: "08:00", ClosingTime: "22:00"}

	hours := ResolveDay(1, cfg, &model.ScheduleException{IsClosed: true, Reason: "holiday"})
	assert.True(t, hours.Closed)
	assert.Equal(t, "holiday", hours.Reason)

	// Missing either time closes the day too.
	hours = ResolveDay(1, cfg, &model.ScheduleException{OpeningTime: strPtr("10:00")})
	assert.True(t, hours.Closed)
}

func TestResolveDayInactiveWeekday(t *testing.T) {
	cfg := &model.ScheduleConfig{OpeningTime: "08:00", ClosingTime: "22:00", ActiveWeekdays: []int{1, 2, 3, 4, 5}}

	hours := ResolveDay(7, cfg, nil)
	assert.True(t, hours.Closed)
	assert.Equal(t, SourceConfig, hours.Source)

	hours = ResolveDay(3, cfg, nil)
	assert.False(t, hours.Closed)
	assert.Equal(t, "08:00", hours.OpeningTime)
}

func TestEvaluateSlotPast(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	slot := Interval{Start: clock(10, 0), End: clock(11, 0)}

	assert.Equal(t, ReasonPast, EvaluateSlot(slot, clock(10, 0), day, time.UTC, Exclusions{}))
	assert.Equal(t, ReasonPast, EvaluateSlot(slot, clock(10, 30), day, time.UTC, Exclusions{}))
	assert.Equal(t, ReasonNone, EvaluateSlot(slot, clock(9, 59), day, time.UTC, Exclusions{}))
}

func TestEvaluateSlotPriority(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	now := clock(7, 0)
	slot := Interval{Start: clock(10, 0), End: clock(11, 0)}

	excl := Exclusions{
		Blackouts:    []model.BlackoutWindow{{Date: "2026-01-05", StartTime: strPtr("10:00"), EndTime: strPtr("12:00")}},
		Events:       []model.Event{{Date: "2026-01-05", StartTime: "09:00", EndTime: "11:00", Status: model.EventStatusActive}},
		Reservations: []model.Reservation{{Date: "2026-01-05", StartTime: "10:00", EndTime: "11:00", Status: model.StatusPending}},
	}

	// Blocking beats event beats reservation.
	assert.Equal(t, ReasonBlocking, EvaluateSlot(slot, now, day, time.UTC, excl))

	excl.Blackouts = nil
	assert.Equal(t, ReasonEvent, EvaluateSlot(slot, now, day, time.UTC, excl))

	excl.Events = nil
	assert.Equal(t, ReasonReservation, EvaluateSlot(slot, now, day, time.UTC, excl))

	// Past beats everything.
	excl.Blackouts = []model.BlackoutWindow{{Date: "2026-01-05"}}
	assert.Equal(t, ReasonPast, EvaluateSlot(slot, clock(12, 0), day, time.UTC, excl))
}

func TestEvaluateSlotWholeDayBlackout(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	excl := Exclusions{Blackouts: []model.BlackoutWindow{{Date: "2026-01-05"}}}

	for hour := 8; hour < 22; hour++ {
		slot := Interval{Start: clock(hour, 0), End: clock(hour+1, 0)}
		assert.Equal(t, ReasonBlocking, EvaluateSlot(slot, clock(7, 0), day, time.UTC, excl))
	}
}

func TestEvaluateSlotInactiveExclusionsIgnored(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	slot := Interval{Start: clock(10, 0), End: clock(11, 0)}

	excl := Exclusions{
		Events:       []model.Event{{Date: "2026-01-05", StartTime: "10:00", EndTime: "11:00", Status: model.EventStatusCancelled}},
		Reservations: []model.Reservation{{Date: "2026-01-05", StartTime: "10:00", EndTime: "11:00", Status: model.StatusExpired}},
	}
	assert.Equal(t, ReasonNone, EvaluateSlot(slot, clock(7, 0), day, time.UTC, excl))
}

func TestEvaluateSlotAdjacentWindows(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	slot := Interval{Start: clock(10, 0), End: clock(11, 0)}

	excl := Exclusions{
		Blackouts: []model.BlackoutWindow{{Date: "2026-01-05", StartTime: strPtr("11:00"), EndTime: strPtr("12:00")}},
		Reservations: []model.Reservation{
			{Date: "2026-01-05", StartTime: "09:00", EndTime: "10:00", Status: model.StatusConfirmed},
		},
	}
	assert.Equal(t, ReasonNone, EvaluateSlot(slot, clock(7, 0), day, time.UTC, excl))
}
