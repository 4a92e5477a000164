package agenda

import (
	"context"
	"fmt"
	"sort"
	"time"

	"quadralivre/internal/model"
)

// ConfigParams is the admin input for the weekly schedule.
type ConfigParams struct {
	OpeningTime         string
	ClosingTime         string
	SlotDurationMinutes int
	ActiveWeekdays      []int
	Timezone            string
}

// UpsertConfig validates and writes the singleton schedule config.
// The returned bool reports whether a new row was created.
func (s *Service) UpsertConfig(ctx context.Context, p ConfigParams) (*model.ScheduleConfig, bool, error) {
	if err := validateClockRange(p.OpeningTime, p.ClosingTime); err != nil {
		return nil, false, err
	}
	if p.SlotDurationMinutes <= 0 {
		return nil, false, ErrInvalidSlotDuration
	}
	weekdays, err := normalizeWeekdays(p.ActiveWeekdays)
	if err != nil {
		return nil, false, err
	}
	tz := p.Timezone
	if tz == "" {
		tz = model.DefaultTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, false, fmt.Errorf("%w: unknown timezone %q", ErrInvalidTimeRange, tz)
	}

	cfg := &model.ScheduleConfig{
		OpeningTime:         p.OpeningTime,
		ClosingTime:         p.ClosingTime,
		SlotDurationMinutes: p.SlotDurationMinutes,
		ActiveWeekdays:      weekdays,
		Timezone:            tz,
	}
	created, err := s.store.UpsertScheduleConfig(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	return cfg, created, nil
}

// ExceptionParams is the admin input for a date exception. A closed
// exception discards any submitted times.
type ExceptionParams struct {
	Date        string
	OpeningTime *string
	ClosingTime *string
	IsClosed    bool
	Reason      string
}

// CreateException writes a new date exception, enforcing one per date.
func (s *Service) CreateException(ctx context.Context, p ExceptionParams) (*model.ScheduleException, error) {
	exc, err := buildException(p)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.GetException(ctx, p.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrExceptionExists
	}
	if err := s.store.CreateException(ctx, exc); err != nil {
		return nil, err
	}
	return exc, nil
}

// UpdateException rewrites an existing exception in place.
func (s *Service) UpdateException(ctx context.Context, id int64, p ExceptionParams) (*model.ScheduleException, error) {
	existing, err := s.store.GetExceptionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	exc, err := buildException(p)
	if err != nil {
		return nil, err
	}
	if exc.Date != existing.Date {
		other, err := s.store.GetException(ctx, exc.Date)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrExceptionExists
		}
	}
	exc.ID = id
	if err := s.store.UpdateException(ctx, exc); err != nil {
		return nil, err
	}
	return exc, nil
}

func (s *Service) DeleteException(ctx context.Context, id int64) error {
	existing, err := s.store.GetExceptionByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.store.DeleteException(ctx, id)
}

func (s *Service) ListExceptions(ctx context.Context) ([]model.ScheduleException, error) {
	return s.store.ListExceptions(ctx)
}

// BlackoutParams is the admin input for a blackout window. Both times
// nil blacks out the whole date for the scope.
type BlackoutParams struct {
	CourtID   *int64
	Date      string
	StartTime *string
	EndTime   *string
	Reason    string
}

// CreateBlackout validates a blackout window against the effective hours
// of its date and persists it. Whole-day windows skip the hours check so
// a blackout can still be placed on a closed date.
func (s *Service) CreateBlackout(ctx context.Context, p BlackoutParams) (*model.BlackoutWindow, error) {
	b := &model.BlackoutWindow{
		CourtID:   p.CourtID,
		Date:      p.Date,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Reason:    p.Reason,
	}

	if !b.WholeDay() {
		if p.StartTime == nil || p.EndTime == nil {
			return nil, fmt.Errorf("%w: start and end must both be set or both be empty", ErrInvalidTimeRange)
		}
		if err := validateClockRange(*p.StartTime, *p.EndTime); err != nil {
			return nil, err
		}

		cfg, err := s.Config(ctx)
		if err != nil {
			return nil, err
		}
		loc, err := cfg.Location()
		if err != nil {
			return nil, fmt.Errorf("load timezone: %w", err)
		}
		day, err := time.ParseInLocation(dateLayout, p.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		exc, err := s.store.GetException(ctx, p.Date)
		if err != nil {
			return nil, err
		}
		hours := ResolveDay(model.ISOWeekday(day), cfg, exc)
		if hours.Closed {
			return nil, ErrDayClosed
		}
		if *p.StartTime < hours.OpeningTime || *p.EndTime > hours.ClosingTime {
			return nil, ErrBlockedOutsideHours
		}
	}

	if err := s.store.CreateBlackout(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) DeleteBlackout(ctx context.Context, id int64) error {
	existing, err := s.store.GetBlackout(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.store.DeleteBlackout(ctx, id)
}

func (s *Service) ListBlackouts(ctx context.Context) ([]model.BlackoutWindow, error) {
	return s.store.ListBlackouts(ctx)
}

// EventParams is the admin input for an event.
type EventParams struct {
	Name       string
	Date       string
	StartTime  string
	EndTime    string
	Visibility string
	Status     string
}

func (s *Service) CreateEvent(ctx context.Context, p EventParams) (*model.Event, error) {
	e, err := buildEvent(p)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id int64, p EventParams) (*model.Event, error) {
	existing, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	e, err := buildEvent(p)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.store.UpdateEvent(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	existing, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.store.DeleteEvent(ctx, id)
}

func (s *Service) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.store.ListEvents(ctx)
}

func buildException(p ExceptionParams) (*model.ScheduleException, error) {
	if _, err := time.Parse(dateLayout, p.Date); err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidTimeRange, p.Date)
	}
	exc := &model.ScheduleException{
		Date:     p.Date,
		IsClosed: p.IsClosed,
		Reason:   p.Reason,
	}
	// A closed date carries no times regardless of what was submitted.
	if !p.IsClosed {
		if p.OpeningTime == nil || p.ClosingTime == nil {
			exc.IsClosed = true
			return exc, nil
		}
		if err := validateClockRange(*p.OpeningTime, *p.ClosingTime); err != nil {
			return nil, err
		}
		exc.OpeningTime = p.OpeningTime
		exc.ClosingTime = p.ClosingTime
	}
	return exc, nil
}

func buildEvent(p EventParams) (*model.Event, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: event name required", ErrInvalidTimeRange)
	}
	if _, err := time.Parse(dateLayout, p.Date); err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidTimeRange, p.Date)
	}
	if err := validateClockRange(p.StartTime, p.EndTime); err != nil {
		return nil, err
	}
	status := p.Status
	if status == "" {
		status = model.EventStatusActive
	}
	if !model.ValidEventStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTimeRange, p.Status)
	}
	return &model.Event{
		Name:       p.Name,
		Date:       p.Date,
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		Visibility: p.Visibility,
		Status:     status,
	}, nil
}

func validateClockRange(start, end string) error {
	ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := model.TimeOnDate(ref, start, time.UTC)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	e, err := model.TimeOnDate(ref, end, time.UTC)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	if !s.Before(e) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, start, end)
	}
	return nil
}

func normalizeWeekdays(days []int) ([]int, error) {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidTimeRange, d)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out, nil
}
