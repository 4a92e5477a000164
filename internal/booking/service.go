package booking

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"quadralivre/internal/agenda"
	"quadralivre/internal/database"
	"quadralivre/internal/metrics"
	"quadralivre/internal/model"
)

// Store is the persistence surface the booking service needs.
type Store interface {
	GetCourt(ctx context.Context, id int64) (*model.Court, error)
	GetReservation(ctx context.Context, id int64) (*model.Reservation, error)
	ListReservations(ctx context.Context, f database.ReservationFilter) ([]model.Reservation, error)
	HasConflict(ctx context.Context, courtID int64, date, start, end string) (bool, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservationStatus(ctx context.Context, id int64, status string) error
}

// Service creates and manages reservations. Commits for the same court
// are serialized through a per-court mutex so two requests for the same
// slot cannot both pass the conflict check.
type Service struct {
	store  Store
	agenda *agenda.Service
	logger *zerolog.Logger

	mu         sync.Mutex
	courtLocks map[int64]*sync.Mutex
}

func New(store Store, agendaSvc *agenda.Service, logger *zerolog.Logger) *Service {
	return &Service{
		store:      store,
		agenda:     agendaSvc,
		logger:     logger,
		courtLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *Service) courtLock(courtID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.courtLocks[courtID]
	if !ok {
		lock = &sync.Mutex{}
		s.courtLocks[courtID] = lock
	}
	return lock
}

// BookParams is the input for a booking request.
type BookParams struct {
	CourtID    int64
	UserID     int64
	ClientName string
	Date       string // "YYYY-MM-DD"
	StartTime  string // "HH:MM"
}

// Book validates the requested slot against the live agenda and, when it
// is free, creates a pending reservation. The availability check and the
// insert run under the court's lock with a final conflict re-check, so a
// concurrent request for the same slot loses cleanly.
func (s *Service) Book(ctx context.Context, p BookParams) (*model.Reservation, error) {
	lock := s.courtLock(p.CourtID)
	lock.Lock()
	defer lock.Unlock()

	// Read the court under the lock so a deactivation racing with a
	// booking cannot slip a reservation into a court already turned off.
	court, err := s.store.GetCourt(ctx, p.CourtID)
	if err != nil {
		return nil, err
	}
	if court == nil || !court.Active {
		metrics.IncBookingRejected("court_unavailable")
		return nil, ErrCourtUnavailable
	}

	check, err := s.agenda.SlotAvailability(ctx, p.Date, p.StartTime, p.CourtID)
	if err != nil {
		return nil, err
	}
	if !check.Available {
		metrics.IncBookingRejected(check.Reason)
		return nil, reasonError(check.Reason)
	}

	// The agenda read already saw current reservations, but re-check at
	// the storage layer in case anything committed between reads.
	conflict, err := s.store.HasConflict(ctx, p.CourtID, p.Date, p.StartTime, check.EndTime)
	if err != nil {
		return nil, err
	}
	if conflict {
		metrics.IncBookingRejected(string(agenda.ReasonReservation))
		return nil, ErrSlotUnavailable
	}

	r := &model.Reservation{
		Reference:  uuid.NewString(),
		CourtID:    p.CourtID,
		UserID:     p.UserID,
		ClientName: p.ClientName,
		Date:       p.Date,
		StartTime:  p.StartTime,
		EndTime:    check.EndTime,
		Status:     model.StatusPending,
	}
	if err := s.store.CreateReservation(ctx, r); err != nil {
		return nil, err
	}

	metrics.IncReservationCreated()
	s.logger.Info().
		Str("reference", r.Reference).
		Int64("court_id", r.CourtID).
		Int64("user_id", r.UserID).
		Str("date", r.Date).
		Str("start", r.StartTime).
		Msg("reservation created")
	return r, nil
}

func reasonError(reason string) error {
	switch agenda.Reason(reason) {
	case agenda.ReasonClosed:
		return ErrClosedDay
	case agenda.ReasonOutsideHours:
		return ErrOutsideHours
	case agenda.ReasonPast:
		return ErrPastSlot
	case agenda.ReasonBlocking:
		return ErrBlocked
	case agenda.ReasonEvent:
		return ErrEventConflict
	default:
		return ErrSlotUnavailable
	}
}

// Cancel moves an active reservation to cancelled. Regular users may only
// cancel their own reservations; admins may cancel any.
func (s *Service) Cancel(ctx context.Context, id, actorUserID int64, isAdmin bool) (*model.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	if !isAdmin && r.UserID != actorUserID {
		return nil, ErrForbidden
	}
	if !r.IsActive() {
		return nil, ErrInvalidState
	}

	if err := s.store.UpdateReservationStatus(ctx, id, model.StatusCancelled); err != nil {
		return nil, err
	}
	r.Status = model.StatusCancelled

	by := "user"
	if isAdmin {
		by = "admin"
	}
	metrics.IncReservationCancelled(by)
	s.logger.Info().Str("reference", r.Reference).Str("by", by).Msg("reservation cancelled")
	return r, nil
}

// Confirm moves a pending reservation to confirmed. Admin only; the
// caller enforces the role.
func (s *Service) Confirm(ctx context.Context, id int64) (*model.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	if r.Status != model.StatusPending {
		return nil, ErrInvalidState
	}

	if err := s.store.UpdateReservationStatus(ctx, id, model.StatusConfirmed); err != nil {
		return nil, err
	}
	r.Status = model.StatusConfirmed
	return r, nil
}

// Get returns one reservation. Regular users may only see their own.
func (s *Service) Get(ctx context.Context, id, actorUserID int64, isAdmin bool) (*model.Reservation, error) {
	s.sweep(ctx)
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	if !isAdmin && r.UserID != actorUserID {
		return nil, ErrForbidden
	}
	return r, nil
}

// List returns reservations matching the filter, sweeping stale pending
// entries first so callers never see a reservation that should have
// expired.
func (s *Service) List(ctx context.Context, f database.ReservationFilter) ([]model.Reservation, error) {
	s.sweep(ctx)
	return s.store.ListReservations(ctx, f)
}

// ListForUser returns one user's reservations, newest date first as
// ordered by the store.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]model.Reservation, error) {
	s.sweep(ctx)
	return s.store.ListReservations(ctx, database.ReservationFilter{UserID: userID})
}

// sweep delegates to the agenda service so expiry always runs against
// the configured timezone's day boundary.
func (s *Service) sweep(ctx context.Context) {
	s.agenda.Sweep(ctx)
}
