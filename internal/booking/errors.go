package booking

import "errors"

var (
	ErrClosedDay        = errors.New("agenda is closed on this date")
	ErrOutsideHours     = errors.New("slot is outside working hours")
	ErrPastSlot         = errors.New("slot is in the past")
	ErrBlocked          = errors.New("slot is blocked")
	ErrEventConflict    = errors.New("slot conflicts with an event")
	ErrSlotUnavailable  = errors.New("slot is already reserved")
	ErrCourtUnavailable = errors.New("court is not available for booking")
	ErrForbidden        = errors.New("not allowed to modify this reservation")
	ErrInvalidState     = errors.New("reservation is not in a modifiable state")
	ErrNotFound         = errors.New("reservation not found")
)
