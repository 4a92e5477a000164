package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quadralivre/internal/model"
)

const reservationColumns = "id, reference, court_id, user_id, client_name, date, start_time, end_time, status, created_at, updated_at"

// ReservationFilter narrows reservation listings.
type ReservationFilter struct {
	Date    string
	CourtID int64
	UserID  int64
	Status  string
}

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var r model.Reservation
	var clientName sql.NullString
	if err := row.Scan(&r.ID, &r.Reference, &r.CourtID, &r.UserID, &clientName, &r.Date, &r.StartTime, &r.EndTime, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if clientName.Valid {
		r.ClientName = clientName.String
	}
	return &r, nil
}

// GetReservation returns a reservation by id, or nil.
func (db *DB) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id)
	r, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return r, nil
}

// ListReservations returns reservations matching the filter, ordered by
// date, start time and id.
func (db *DB) ListReservations(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	query := "SELECT " + reservationColumns + " FROM reservations WHERE 1=1"
	var args []any
	if f.Date != "" {
		query += " AND date = ?"
		args = append(args, f.Date)
	}
	if f.CourtID > 0 {
		query += " AND court_id = ?"
		args = append(args, f.CourtID)
	}
	if f.UserID > 0 {
		query += " AND user_id = ?"
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	query += " ORDER BY date, start_time, id"
	return db.queryReservations(ctx, query, args...)
}

// ListActiveReservations returns pending and confirmed reservations for a
// court on a date.
func (db *DB) ListActiveReservations(ctx context.Context, courtID int64, date string) ([]model.Reservation, error) {
	return db.queryReservations(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE court_id = ? AND date = ? AND status IN (?, ?)
		ORDER BY start_time, id`,
		courtID, date, model.StatusPending, model.StatusConfirmed)
}

// HasConflict reports whether any active reservation on the court and date
// overlaps [start, end) in half-open semantics. This is the authoritative
// commit-time check.
func (db *DB) HasConflict(ctx context.Context, courtID int64, date, start, end string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE court_id = ? AND date = ?
		AND status IN (?, ?)
		AND start_time < ? AND end_time > ?`,
		courtID, date, model.StatusPending, model.StatusConfirmed, end, start,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check conflict: %w", err)
	}
	return count > 0, nil
}

// CreateReservation inserts a reservation with its current status.
func (db *DB) CreateReservation(ctx context.Context, r *model.Reservation) error {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO reservations (reference, court_id, user_id, client_name, date, start_time, end_time, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Reference, r.CourtID, r.UserID, r.ClientName, r.Date, r.StartTime, r.EndTime, r.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	r.ID, _ = res.LastInsertId()
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

// UpdateReservationStatus transitions a reservation to a new status.
func (db *DB) UpdateReservationStatus(ctx context.Context, id int64, status string) error {
	_, err := db.ExecContext(ctx,
		"UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	return nil
}

// ExpirePending transitions every pending reservation whose start is in
// the past relative to now into the expired terminal state. The date and
// clock comparisons use now's location, so callers pass a clock already
// converted to the operating timezone. Idempotent; called lazily before
// any read or write that depends on occupancy.
func (db *DB) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	today := now.Format("2006-01-02")
	clock := now.Format("15:04")

	res, err := db.ExecContext(ctx, `
		UPDATE reservations
		SET status = ?, updated_at = ?
		WHERE status = ?
		AND (date < ? OR (date = ? AND start_time <= ?))`,
		model.StatusExpired, now, model.StatusPending, today, today, clock,
	)
	if err != nil {
		return 0, fmt.Errorf("expire pending: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (db *DB) queryReservations(ctx context.Context, query string, args ...any) ([]model.Reservation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
