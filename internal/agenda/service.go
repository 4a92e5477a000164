package agenda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"quadralivre/internal/metrics"
	"quadralivre/internal/model"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Store is the persistence surface the agenda service needs.
type Store interface {
	GetScheduleConfig(ctx context.Context) (*model.ScheduleConfig, error)
	UpsertScheduleConfig(ctx context.Context, c *model.ScheduleConfig) (bool, error)

	GetException(ctx context.Context, date string) (*model.ScheduleException, error)
	GetExceptionByID(ctx context.Context, id int64) (*model.ScheduleException, error)
	CreateException(ctx context.Context, e *model.ScheduleException) error
	UpdateException(ctx context.Context, e *model.ScheduleException) error
	DeleteException(ctx context.Context, id int64) error
	ListExceptions(ctx context.Context) ([]model.ScheduleException, error)
	ListExceptionsRange(ctx context.Context, from, to string) ([]model.ScheduleException, error)

	CreateBlackout(ctx context.Context, b *model.BlackoutWindow) error
	GetBlackout(ctx context.Context, id int64) (*model.BlackoutWindow, error)
	DeleteBlackout(ctx context.Context, id int64) error
	ListBlackouts(ctx context.Context) ([]model.BlackoutWindow, error)
	ListBlackoutsForDate(ctx context.Context, date string, courtID *int64) ([]model.BlackoutWindow, error)
	ListGlobalBlackoutsRange(ctx context.Context, from, to string) ([]model.BlackoutWindow, error)

	CreateEvent(ctx context.Context, e *model.Event) error
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	UpdateEvent(ctx context.Context, e *model.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListActiveEventsForDate(ctx context.Context, date string) ([]model.Event, error)
	ListActiveEventsRange(ctx context.Context, from, to string) ([]model.Event, error)

	ListActiveReservations(ctx context.Context, courtID int64, date string) ([]model.Reservation, error)
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

// Service resolves schedules and evaluates availability.
type Service struct {
	store    Store
	logger   *zerolog.Logger
	rdb      *redis.Client
	cacheTTL time.Duration
	now      func() time.Time
}

func New(store Store, logger *zerolog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// UseRedisCache configures optional Redis caching for the month overview.
// Cached responses may be stale for up to ttl; availability is re-checked
// at booking time regardless.
func (s *Service) UseRedisCache(rdb *redis.Client, ttl time.Duration) {
	s.rdb = rdb
	s.cacheTTL = ttl
}

// SetClock overrides the wall-clock source, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SlotView is a single slot in a day listing. Reason is empty for
// available slots.
type SlotView struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// DayAvailability is the full slot grid for a date.
type DayAvailability struct {
	Date     string     `json:"date"`
	IsClosed bool       `json:"is_closed"`
	Source   string     `json:"source"`
	Reason   string     `json:"reason,omitempty"`
	Slots    []SlotView `json:"slots"`
}

// SlotCheck is the result of a single-slot availability query.
type SlotCheck struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// DayOverview classifies one day of a month overview.
type DayOverview struct {
	Date   string `json:"date"`
	Status string `json:"status"` // "available", "partial", "closed"
	Source string `json:"source,omitempty"`
}

// Config returns the live schedule configuration, failing with ErrNoConfig
// when none has been written.
func (s *Service) Config(ctx context.Context) (*model.ScheduleConfig, error) {
	cfg, err := s.store.GetScheduleConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrNoConfig
	}
	return cfg, nil
}

// DayAvailability generates the date's slot grid and evaluates every slot.
// When courtID is nil only global exclusions apply and reservations are
// not considered.
func (s *Service) DayAvailability(ctx context.Context, date string, courtID *int64) (*DayAvailability, error) {
	s.Sweep(ctx)

	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	exc, err := s.store.GetException(ctx, date)
	if err != nil {
		return nil, err
	}

	hours := ResolveDay(model.ISOWeekday(day), cfg, exc)
	if hours.Closed {
		return &DayAvailability{Date: date, IsClosed: true, Source: hours.Source, Reason: hours.Reason, Slots: []SlotView{}}, nil
	}

	open, err := model.TimeOnDate(day, hours.OpeningTime, loc)
	if err != nil {
		return nil, fmt.Errorf("opening time: %w", err)
	}
	close, err := model.TimeOnDate(day, hours.ClosingTime, loc)
	if err != nil {
		return nil, fmt.Errorf("closing time: %w", err)
	}

	slots, err := Slots(open, close, time.Duration(cfg.SlotDurationMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}

	excl, err := s.loadExclusions(ctx, date, courtID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(loc)
	views := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		reason := EvaluateSlot(slot, now, day, loc, excl)
		view := SlotView{
			Start:     slot.Start.Format(clockLayout),
			End:       slot.End.Format(clockLayout),
			Available: reason == ReasonNone,
		}
		if reason != ReasonNone {
			view.Reason = string(reason)
		}
		views = append(views, view)
	}

	return &DayAvailability{Date: date, Source: hours.Source, Reason: hours.Reason, Slots: views}, nil
}

// SlotAvailability checks a single requested slot, sharing EvaluateSlot
// with the day listing so offered and accepted slots cannot diverge.
func (s *Service) SlotAvailability(ctx context.Context, date, startClock string, courtID int64) (*SlotCheck, error) {
	s.Sweep(ctx)

	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.SlotDurationMinutes <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	exc, err := s.store.GetException(ctx, date)
	if err != nil {
		return nil, err
	}

	hours := ResolveDay(model.ISOWeekday(day), cfg, exc)
	if hours.Closed {
		return &SlotCheck{Available: false, Reason: string(ReasonClosed)}, nil
	}

	open, err := model.TimeOnDate(day, hours.OpeningTime, loc)
	if err != nil {
		return nil, fmt.Errorf("opening time: %w", err)
	}
	close, err := model.TimeOnDate(day, hours.ClosingTime, loc)
	if err != nil {
		return nil, fmt.Errorf("closing time: %w", err)
	}
	start, err := model.TimeOnDate(day, startClock, loc)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}

	duration := time.Duration(cfg.SlotDurationMinutes) * time.Minute
	end := start.Add(duration)

	// The requested slot must sit inside hours and on a grid boundary.
	if start.Before(open) || end.After(close) || !AlignedToGrid(open, start, duration) {
		return &SlotCheck{Available: false, Reason: string(ReasonOutsideHours)}, nil
	}

	excl, err := s.loadExclusions(ctx, date, &courtID)
	if err != nil {
		return nil, err
	}

	reason := EvaluateSlot(Interval{Start: start, End: end}, s.now().In(loc), day, loc, excl)
	check := &SlotCheck{
		Available: reason == ReasonNone,
		EndTime:   end.Format(clockLayout),
	}
	if reason != ReasonNone {
		check.Reason = string(reason)
	}
	return check, nil
}

// MonthOverview classifies every day of a month without enumerating
// slots. Precedence: exception > inactive weekday > event > global
// blackout > available.
func (s *Service) MonthOverview(ctx context.Context, year int, month time.Month) ([]DayOverview, error) {
	cacheKey := fmt.Sprintf("month_overview:%04d-%02d", year, month)
	var cached []DayOverview
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	from := first.Format(dateLayout)
	to := last.Format(dateLayout)

	exceptions, err := s.store.ListExceptionsRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	excByDate := make(map[string]*model.ScheduleException, len(exceptions))
	for i := range exceptions {
		excByDate[exceptions[i].Date] = &exceptions[i]
	}

	events, err := s.store.ListActiveEventsRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	eventDates := make(map[string]bool, len(events))
	for i := range events {
		eventDates[events[i].Date] = true
	}

	blackouts, err := s.store.ListGlobalBlackoutsRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	blackoutDates := make(map[string]bool, len(blackouts))
	for i := range blackouts {
		blackoutDates[blackouts[i].Date] = true
	}

	days := make([]DayOverview, 0, last.Day())
	for cursor := first; !cursor.After(last); cursor = cursor.AddDate(0, 0, 1) {
		date := cursor.Format(dateLayout)

		if exc, ok := excByDate[date]; ok {
			status := "partial"
			if exc.Closed() {
				status = "closed"
			}
			days = append(days, DayOverview{Date: date, Status: status, Source: SourceException})
			continue
		}

		if !cfg.IsActiveWeekday(model.ISOWeekday(cursor)) {
			days = append(days, DayOverview{Date: date, Status: "closed", Source: SourceConfig})
			continue
		}

		if eventDates[date] {
			days = append(days, DayOverview{Date: date, Status: "partial", Source: "event"})
			continue
		}

		if blackoutDates[date] {
			days = append(days, DayOverview{Date: date, Status: "partial", Source: "blocking"})
			continue
		}

		days = append(days, DayOverview{Date: date, Status: "available"})
	}

	s.writeCache(ctx, cacheKey, days)
	return days, nil
}

func (s *Service) loadExclusions(ctx context.Context, date string, courtID *int64) (Exclusions, error) {
	blackouts, err := s.store.ListBlackoutsForDate(ctx, date, courtID)
	if err != nil {
		return Exclusions{}, err
	}
	events, err := s.store.ListActiveEventsForDate(ctx, date)
	if err != nil {
		return Exclusions{}, err
	}
	var reservations []model.Reservation
	if courtID != nil {
		reservations, err = s.store.ListActiveReservations(ctx, *courtID, date)
		if err != nil {
			return Exclusions{}, err
		}
	}
	return Exclusions{Blackouts: blackouts, Events: events, Reservations: reservations}, nil
}

// Sweep expires stale pending reservations. The clock is pinned to the
// configured timezone so "today" matches the operating day boundary even
// when the host runs in a different zone.
func (s *Service) Sweep(ctx context.Context) {
	now := s.now()
	if cfg, err := s.store.GetScheduleConfig(ctx); err == nil && cfg != nil {
		if loc, err := cfg.Location(); err == nil {
			now = now.In(loc)
		}
	}
	n, err := s.store.ExpirePending(ctx, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("expire sweep failed")
		return
	}
	if n > 0 {
		metrics.AddReservationsExpired(n)
		s.logger.Debug().Int64("count", n).Msg("swept stale pending reservations")
	}
}

func (s *Service) readCache(ctx context.Context, key string, dest any) bool {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return false
	}
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *Service) writeCache(ctx context.Context, key string, value any) {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.rdb.Set(ctx, key, data, s.cacheTTL).Err()
}
