package model

import "time"

// Event statuses. Only active events exclude slots from availability.
const (
	EventStatusActive    = "active"
	EventStatusInactive  = "inactive"
	EventStatusCancelled = "cancelled"
)

var EventStatuses = []string{
	EventStatusActive,
	EventStatusInactive,
	EventStatusCancelled,
}

type Event struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Date       string    `json:"date"` // "YYYY-MM-DD"
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Visibility string    `json:"visibility"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsActive reports whether the event participates in availability exclusion.
func (e *Event) IsActive() bool {
	return e.Status == EventStatusActive
}

// ValidEventStatus reports whether s is a known event status.
func ValidEventStatus(s string) bool {
	for _, known := range EventStatuses {
		if s == known {
			return true
		}
	}
	return false
}
