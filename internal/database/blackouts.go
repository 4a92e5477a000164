package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quadralivre/internal/model"
)

const blackoutColumns = "id, court_id, date, start_time, end_time, reason, created_at"

func scanBlackout(row interface{ Scan(...any) error }) (*model.BlackoutWindow, error) {
	var b model.BlackoutWindow
	var courtID sql.NullInt64
	var start, end, reason sql.NullString
	if err := row.Scan(&b.ID, &courtID, &b.Date, &start, &end, &reason, &b.CreatedAt); err != nil {
		return nil, err
	}
	if courtID.Valid {
		b.CourtID = &courtID.Int64
	}
	if start.Valid {
		b.StartTime = &start.String
	}
	if end.Valid {
		b.EndTime = &end.String
	}
	if reason.Valid {
		b.Reason = reason.String
	}
	return &b, nil
}

// CreateBlackout inserts a blackout window. Windows are immutable once
// created, except by deletion.
func (db *DB) CreateBlackout(ctx context.Context, b *model.BlackoutWindow) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO blackout_windows (court_id, date, start_time, end_time, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.CourtID, b.Date, b.StartTime, b.EndTime, b.Reason, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("create blackout: %w", err)
	}
	b.ID, _ = res.LastInsertId()
	return nil
}

// GetBlackout returns a blackout window by id, or nil.
func (db *DB) GetBlackout(ctx context.Context, id int64) (*model.BlackoutWindow, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+blackoutColumns+" FROM blackout_windows WHERE id = ?", id)
	b, err := scanBlackout(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blackout: %w", err)
	}
	return b, nil
}

// DeleteBlackout removes a blackout window by id.
func (db *DB) DeleteBlackout(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, "DELETE FROM blackout_windows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete blackout: %w", err)
	}
	return nil
}

// ListBlackoutsForDate returns windows on the date that apply to the given
// court: global windows always, court-scoped ones when courtID matches.
// With courtID nil only global windows are returned.
func (db *DB) ListBlackoutsForDate(ctx context.Context, date string, courtID *int64) ([]model.BlackoutWindow, error) {
	query := "SELECT " + blackoutColumns + " FROM blackout_windows WHERE date = ?"
	args := []any{date}
	if courtID != nil {
		query += " AND (court_id IS NULL OR court_id = ?)"
		args = append(args, *courtID)
	} else {
		query += " AND court_id IS NULL"
	}
	query += " ORDER BY start_time IS NULL DESC, start_time, id"
	return db.queryBlackouts(ctx, query, args...)
}

// ListGlobalBlackoutsRange returns global windows within [from, to].
func (db *DB) ListGlobalBlackoutsRange(ctx context.Context, from, to string) ([]model.BlackoutWindow, error) {
	return db.queryBlackouts(ctx, `
		SELECT `+blackoutColumns+` FROM blackout_windows
		WHERE date >= ? AND date <= ? AND court_id IS NULL
		ORDER BY date, id`,
		from, to)
}

// ListBlackouts returns all windows ordered by date and start time.
func (db *DB) ListBlackouts(ctx context.Context) ([]model.BlackoutWindow, error) {
	return db.queryBlackouts(ctx,
		"SELECT "+blackoutColumns+" FROM blackout_windows ORDER BY date, start_time, id")
}

func (db *DB) queryBlackouts(ctx context.Context, query string, args ...any) ([]model.BlackoutWindow, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blackouts: %w", err)
	}
	defer rows.Close()

	var out []model.BlackoutWindow
	for rows.Next() {
		b, err := scanBlackout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
