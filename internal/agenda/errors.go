package agenda

import "errors"

var (
	ErrNoConfig            = errors.New("agenda config not found")
	ErrInvalidSlotDuration = errors.New("slot duration must be positive")
	ErrBlockedOutsideHours = errors.New("blackout window outside working hours")
	ErrDayClosed           = errors.New("day is closed")
	ErrInvalidTimeRange    = errors.New("end_time must be after start_time")
	ErrExceptionExists     = errors.New("exception already exists for date")
	ErrNotFound            = errors.New("record not found")
)
