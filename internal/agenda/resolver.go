package agenda

import (
	"quadralivre/internal/model"
)

// Hours source values.
const (
	SourceException = "exception"
	SourceConfig    = "config"
)

// DayHours is the effective schedule for a single date.
type DayHours struct {
	OpeningTime string
	ClosingTime string
	Closed      bool
	Source      string // "exception" or "config"
	Reason      string
}

// ResolveDay returns the effective opening hours for a date. A date
// exception is authoritative when present; otherwise the weekly config
// decides via the active-weekday set.
func ResolveDay(isoWeekday int, cfg *model.ScheduleConfig, exc *model.ScheduleException) DayHours {
	if exc != nil {
		if exc.Closed() {
			return DayHours{Closed: true, Source: SourceException, Reason: exc.Reason}
		}
		return DayHours{
			OpeningTime: *exc.OpeningTime,
			ClosingTime: *exc.ClosingTime,
			Source:      SourceException,
			Reason:      exc.Reason,
		}
	}

	if !cfg.IsActiveWeekday(isoWeekday) {
		return DayHours{Closed: true, Source: SourceConfig}
	}

	return DayHours{
		OpeningTime: cfg.OpeningTime,
		ClosingTime: cfg.ClosingTime,
		Source:      SourceConfig,
	}
}
