package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimezone is used when the schedule config carries no timezone.
const DefaultTimezone = "America/Sao_Paulo"

// ScheduleConfig is the single live agenda configuration row. The store
// enforces the singleton: an upsert replaces the row and prunes strays.
type ScheduleConfig struct {
	ID                  int64     `json:"id"`
	OpeningTime         string    `json:"opening_time"` // "HH:MM"
	ClosingTime         string    `json:"closing_time"` // "HH:MM"
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	ActiveWeekdays      []int     `json:"active_weekdays"` // ISO 1-7; empty means every day
	Timezone            string    `json:"timezone"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Location resolves the configured timezone, falling back to the default.
func (c *ScheduleConfig) Location() (*time.Location, error) {
	tz := c.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	return time.LoadLocation(tz)
}

// IsActiveWeekday reports whether the ISO weekday (1=Monday .. 7=Sunday)
// is an active day. An empty set is permissive: every day is active.
func (c *ScheduleConfig) IsActiveWeekday(isoWeekday int) bool {
	if len(c.ActiveWeekdays) == 0 {
		return true
	}
	for _, d := range c.ActiveWeekdays {
		if d == isoWeekday {
			return true
		}
	}
	return false
}

// ScheduleException overrides the weekly schedule for a single date.
// When IsClosed is set or either time is absent, the date is fully closed.
type ScheduleException struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"` // "YYYY-MM-DD"
	OpeningTime *string   `json:"opening_time"`
	ClosingTime *string   `json:"closing_time"`
	IsClosed    bool      `json:"is_closed"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Closed reports whether the exception closes the whole date.
func (e *ScheduleException) Closed() bool {
	return e.IsClosed || e.OpeningTime == nil || e.ClosingTime == nil
}

// ISOWeekday returns the ISO weekday for t (1=Monday .. 7=Sunday).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// TimeOnDate combines a date and an "HH:MM" clock string in loc.
func TimeOnDate(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %s", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour: %w", err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minute: %w", err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("time out of range: %s", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), nil
}
