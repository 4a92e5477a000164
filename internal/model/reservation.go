package model

import "time"

// Reservation statuses. Pending and confirmed occupy their slot; cancelled
// and expired are terminal and free it.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// ActiveStatuses are the statuses that occupy a slot.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Reservation struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"`
	CourtID    int64     `json:"court_id"`
	UserID     int64     `json:"user_id"`
	ClientName string    `json:"client_name,omitempty"`
	Date       string    `json:"date"`       // "YYYY-MM-DD"
	StartTime  string    `json:"start_time"` // "HH:MM"
	EndTime    string    `json:"end_time"`   // "HH:MM"
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsActive reports whether the reservation occupies its slot.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsTerminal reports whether the reservation reached a final state.
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCancelled || r.Status == StatusExpired
}

// OverlapsClock checks the reservation against a [start,end) clock interval
// on its own date. Times compare lexically in "HH:MM" form.
func (r *Reservation) OverlapsClock(start, end string) bool {
	return r.StartTime < end && r.EndTime > start
}
