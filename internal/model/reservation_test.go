package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservation_IsActive(t *testing.T) {
	tests := []struct {
		status string
		active bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCancelled, false},
		{StatusExpired, false},
	}

	for _, tt := range tests {
		r := Reservation{Status: tt.status}
		assert.Equal(t, tt.active, r.IsActive(), "status %s", tt.status)
		assert.Equal(t, !tt.active, r.IsTerminal(), "status %s", tt.status)
	}
}

func TestReservation_OverlapsClock(t *testing.T) {
	r := Reservation{StartTime: "10:00", EndTime: "11:00"}

	assert.True(t, r.OverlapsClock("10:00", "11:00"))
	assert.True(t, r.OverlapsClock("10:30", "11:30"))
	assert.True(t, r.OverlapsClock("09:30", "10:30"))

	// Half-open: touching boundaries do not overlap
	assert.False(t, r.OverlapsClock("11:00", "12:00"))
	assert.False(t, r.OverlapsClock("09:00", "10:00"))
}

func TestScheduleConfig_IsActiveWeekday(t *testing.T) {
	cfg := ScheduleConfig{ActiveWeekdays: []int{1, 2, 3, 4, 5}}
	assert.True(t, cfg.IsActiveWeekday(1))
	assert.False(t, cfg.IsActiveWeekday(6))
	assert.False(t, cfg.IsActiveWeekday(7))

	// Empty set is permissive
	open := ScheduleConfig{}
	for d := 1; d <= 7; d++ {
		assert.True(t, open.IsActiveWeekday(d))
	}
}

func TestScheduleException_Closed(t *testing.T) {
	open := "08:00"
	closeAt := "22:00"

	normal := ScheduleException{OpeningTime: &open, ClosingTime: &closeAt}
	assert.False(t, normal.Closed())

	flagged := ScheduleException{OpeningTime: &open, ClosingTime: &closeAt, IsClosed: true}
	assert.True(t, flagged.Closed())

	missingTime := ScheduleException{OpeningTime: &open}
	assert.True(t, missingTime.Closed())
}

func TestISOWeekday(t *testing.T) {
	// 2026-01-05 is a Monday, 2026-01-11 a Sunday.
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, ISOWeekday(monday))
	assert.Equal(t, 7, ISOWeekday(sunday))
}

func TestTimeOnDate(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, loc)

	got, err := TimeOnDate(date, "10:30", loc)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 10, 30, 0, 0, loc), got)

	_, err = TimeOnDate(date, "1030", loc)
	assert.Error(t, err)

	_, err = TimeOnDate(date, "25:00", loc)
	assert.Error(t, err)
}

func TestBlackoutWindow_Scope(t *testing.T) {
	courtID := int64(2)
	scoped := BlackoutWindow{CourtID: &courtID}
	assert.True(t, scoped.AppliesTo(2))
	assert.False(t, scoped.AppliesTo(3))

	global := BlackoutWindow{}
	assert.True(t, global.AppliesTo(2))
	assert.True(t, global.WholeDay())

	start := "10:00"
	end := "12:00"
	timed := BlackoutWindow{StartTime: &start, EndTime: &end}
	assert.False(t, timed.WholeDay())
}
