package model

import "time"

// BlackoutWindow is an ad-hoc exclusion interval for a date.
// CourtID nil means the window applies to all courts. StartTime and
// EndTime both nil means the whole date is blacked out for that scope.
type BlackoutWindow struct {
	ID        int64     `json:"id"`
	CourtID   *int64    `json:"court_id"`
	Date      string    `json:"date"` // "YYYY-MM-DD"
	StartTime *string   `json:"start_time"`
	EndTime   *string   `json:"end_time"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WholeDay reports whether the window blacks out the entire date.
func (b *BlackoutWindow) WholeDay() bool {
	return b.StartTime == nil && b.EndTime == nil
}

// AppliesTo reports whether the window covers the given court.
func (b *BlackoutWindow) AppliesTo(courtID int64) bool {
	return b.CourtID == nil || *b.CourtID == courtID
}
