package booking

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quadralivre/internal/agenda"
	"quadralivre/internal/database"
	"quadralivre/internal/model"
)

// Monday in the fixed test week.
const testDate = "2026-01-05"

type env struct {
	db      *database.DB
	agenda  *agenda.Service
	booking *Service
	courtID int64
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.UpsertScheduleConfig(ctx, &model.ScheduleConfig{
		OpeningTime:         "08:00",
		ClosingTime:         "22:00",
		SlotDurationMinutes: 60,
		ActiveWeekdays:      []int{1, 2, 3, 4, 5},
		Timezone:            "UTC",
	})
	require.NoError(t, err)

	court := &model.Court{Name: "Quadra 1", Type: "society", Active: true}
	require.NoError(t, db.CreateCourt(ctx, court))

	logger := zerolog.Nop()
	agendaSvc := agenda.New(db, &logger)
	bookingSvc := New(db, agendaSvc, &logger)

	e := &env{db: db, agenda: agendaSvc, booking: bookingSvc, courtID: court.ID}
	e.setClock(t, "07:00")
	return e
}

func (e *env) setClock(t *testing.T, clock string) {
	t.Helper()
	now, err := time.Parse("2006-01-02 15:04", testDate+" "+clock)
	require.NoError(t, err)
	e.agenda.SetClock(func() time.Time { return now })
}

func (e *env) book(start string) (*model.Reservation, error) {
	return e.booking.Book(context.Background(), BookParams{
		CourtID:   e.courtID,
		UserID:    42,
		Date:      testDate,
		StartTime: start,
	})
}

func TestBookSuccess(t *testing.T) {
	e := newEnv(t)

	r, err := e.book("10:00")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, r.Status)
	assert.Equal(t, "11:00", r.EndTime)
	assert.NotEmpty(t, r.Reference)
	assert.NotZero(t, r.ID)

	// The day listing now shows 10:00 as reserved for this court.
	day, err := e.agenda.DayAvailability(context.Background(), testDate, &e.courtID)
	require.NoError(t, err)
	for _, slot := range day.Slots {
		if slot.Start == "10:00" {
			assert.False(t, slot.Available)
			assert.Equal(t, "reservation", slot.Reason)
		} else {
			assert.True(t, slot.Available, slot.Start)
		}
	}
}

func TestBookOfferedSlotIsBookable(t *testing.T) {
	e := newEnv(t)

	day, err := e.agenda.DayAvailability(context.Background(), testDate, &e.courtID)
	require.NoError(t, err)
	for _, slot := range day.Slots {
		require.True(t, slot.Available)
		_, err := e.book(slot.Start)
		require.NoError(t, err, slot.Start)
	}
}

func TestBookDoubleBooking(t *testing.T) {
	e := newEnv(t)

	_, err := e.book("10:00")
	require.NoError(t, err)

	_, err = e.book("10:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Overlap, not just identity: a second court is independent.
	court2 := &model.Court{Name: "Quadra 2", Active: true}
	require.NoError(t, e.db.CreateCourt(context.Background(), court2))
	_, err = e.booking.Book(context.Background(), BookParams{
		CourtID: court2.ID, UserID: 7, Date: testDate, StartTime: "10:00",
	})
	assert.NoError(t, err)
}

func TestBookConcurrentSameSlot(t *testing.T) {
	e := newEnv(t)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.book("15:00")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrSlotUnavailable)
		losses++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)
}

func TestBookRejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.book("10:30")
	assert.ErrorIs(t, err, ErrOutsideHours)

	_, err = e.book("22:00")
	assert.ErrorIs(t, err, ErrOutsideHours)

	// Sunday is closed in the weekly config.
	_, err = e.booking.Book(ctx, BookParams{CourtID: e.courtID, UserID: 42, Date: "2026-01-11", StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrClosedDay)

	e.setClock(t, "12:00")
	_, err = e.book("12:00")
	assert.ErrorIs(t, err, ErrPastSlot)
	e.setClock(t, "07:00")

	// Unknown or deactivated court.
	_, err = e.booking.Book(ctx, BookParams{CourtID: 999, UserID: 42, Date: testDate, StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrCourtUnavailable)

	require.NoError(t, e.db.SetCourtActive(ctx, e.courtID, false))
	_, err = e.book("10:00")
	assert.ErrorIs(t, err, ErrCourtUnavailable)
	require.NoError(t, e.db.SetCourtActive(ctx, e.courtID, true))

	// Blackout and event conflicts map to their own errors.
	start, end := "14:00", "16:00"
	require.NoError(t, e.db.CreateBlackout(ctx, &model.BlackoutWindow{Date: testDate, StartTime: &start, EndTime: &end}))
	_, err = e.book("14:00")
	assert.ErrorIs(t, err, ErrBlocked)

	require.NoError(t, e.db.CreateEvent(ctx, &model.Event{
		Name: "torneio", Date: testDate, StartTime: "18:00", EndTime: "20:00", Status: model.EventStatusActive,
	}))
	_, err = e.book("18:00")
	assert.ErrorIs(t, err, ErrEventConflict)
}

func TestCancel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	r, err := e.book("10:00")
	require.NoError(t, err)

	// Another user cannot cancel it.
	_, err = e.booking.Cancel(ctx, r.ID, 7, false)
	assert.ErrorIs(t, err, ErrForbidden)

	// The owner can.
	cancelled, err := e.booking.Cancel(ctx, r.ID, 42, false)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	// Cancelling again fails; the state is terminal.
	_, err = e.booking.Cancel(ctx, r.ID, 42, false)
	assert.ErrorIs(t, err, ErrInvalidState)

	// The slot is free again.
	_, err = e.book("10:00")
	assert.NoError(t, err)

	_, err = e.booking.Cancel(ctx, 999, 42, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelByAdmin(t *testing.T) {
	e := newEnv(t)

	r, err := e.book("10:00")
	require.NoError(t, err)

	cancelled, err := e.booking.Cancel(context.Background(), r.ID, 1, true)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}

func TestConfirm(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	r, err := e.book("10:00")
	require.NoError(t, err)

	confirmed, err := e.booking.Confirm(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)

	_, err = e.booking.Confirm(ctx, r.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfirmedSurvivesSweep(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	r, err := e.book("10:00")
	require.NoError(t, err)
	_, err = e.booking.Confirm(ctx, r.ID)
	require.NoError(t, err)

	e.setClock(t, "23:00")
	list, err := e.booking.ListForUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.StatusConfirmed, list[0].Status)
}

func TestListForUserSweepsStalePending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	early, err := e.book("09:00")
	require.NoError(t, err)
	late, err := e.book("20:00")
	require.NoError(t, err)

	// Move past the first slot's start; the pending reservation expires
	// lazily on the next read.
	e.setClock(t, "12:00")
	list, err := e.booking.ListForUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[int64]model.Reservation{}
	for _, r := range list {
		byID[r.ID] = r
	}
	assert.Equal(t, model.StatusExpired, byID[early.ID].Status)
	assert.Equal(t, model.StatusPending, byID[late.ID].Status)

	// The freed slot is bookable again by someone else.
	_, err = e.booking.Book(ctx, BookParams{CourtID: e.courtID, UserID: 7, Date: testDate, StartTime: "20:00"})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	_, err = e.booking.Book(ctx, BookParams{CourtID: e.courtID, UserID: 7, Date: testDate, StartTime: "13:00"})
	assert.NoError(t, err)
}

func TestSweepHonorsConfiguredTimezone(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.db.UpsertScheduleConfig(ctx, &model.ScheduleConfig{
		OpeningTime:         "08:00",
		ClosingTime:         "23:59",
		SlotDurationMinutes: 60,
		ActiveWeekdays:      []int{1, 2, 3, 4, 5},
		Timezone:            "America/Sao_Paulo",
	})
	require.NoError(t, err)

	r := &model.Reservation{
		Reference: "tz-sweep-1",
		CourtID:   e.courtID,
		UserID:    42,
		Date:      testDate,
		StartTime: "23:00",
		EndTime:   "23:59",
		Status:    model.StatusPending,
	}
	require.NoError(t, e.db.CreateReservation(ctx, r))

	// 01:00 UTC is still 22:00 the evening before in Sao Paulo, so the
	// 23:00 slot has not started yet and must survive the sweep.
	e.agenda.SetClock(func() time.Time { return time.Date(2026, 1, 6, 1, 0, 0, 0, time.UTC) })
	list, err := e.booking.ListForUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.StatusPending, list[0].Status)

	// Past local midnight the reservation's date is behind the operating
	// day and it expires.
	e.agenda.SetClock(func() time.Time { return time.Date(2026, 1, 6, 3, 30, 0, 0, time.UTC) })
	list, err = e.booking.ListForUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.StatusExpired, list[0].Status)
}

func TestBookChecksCourtUnderLock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Park a booking on the court lock, deactivate the court, then let it
	// through. The court read happens under the lock, so the booking must
	// observe the deactivation.
	lock := e.booking.courtLock(e.courtID)
	lock.Lock()

	done := make(chan error, 1)
	go func() {
		_, err := e.book("10:00")
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, e.db.SetCourtActive(ctx, e.courtID, false))
	lock.Unlock()

	assert.ErrorIs(t, <-done, ErrCourtUnavailable)
}

func TestGetAuthorization(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	r, err := e.book("10:00")
	require.NoError(t, err)

	got, err := e.booking.Get(ctx, r.ID, 42, false)
	require.NoError(t, err)
	assert.Equal(t, r.Reference, got.Reference)

	_, err = e.booking.Get(ctx, r.ID, 7, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.booking.Get(ctx, r.ID, 7, true)
	assert.NoError(t, err)

	_, err = e.booking.Get(ctx, 999, 42, true)
	assert.True(t, errors.Is(err, ErrNotFound))
}
