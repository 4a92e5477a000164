package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quadralivre/internal/model"
)

const eventColumns = "id, name, date, start_time, end_time, visibility, status, created_at, updated_at"

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	if err := row.Scan(&e.ID, &e.Name, &e.Date, &e.StartTime, &e.EndTime, &e.Visibility, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEvent inserts an event.
func (db *DB) CreateEvent(ctx context.Context, e *model.Event) error {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO events (name, date, start_time, end_time, visibility, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Date, e.StartTime, e.EndTime, e.Visibility, e.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

// GetEvent returns an event by id, or nil.
func (db *DB) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	row := db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// UpdateEvent rewrites an event.
func (db *DB) UpdateEvent(ctx context.Context, e *model.Event) error {
	_, err := db.ExecContext(ctx, `
		UPDATE events
		SET name = ?, date = ?, start_time = ?, end_time = ?, visibility = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		e.Name, e.Date, e.StartTime, e.EndTime, e.Visibility, e.Status, time.Now(), e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event by id.
func (db *DB) DeleteEvent(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ListActiveEventsForDate returns active events on a date.
func (db *DB) ListActiveEventsForDate(ctx context.Context, date string) ([]model.Event, error) {
	return db.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE date = ? AND status = ?
		ORDER BY start_time, id`,
		date, model.EventStatusActive)
}

// ListActiveEventsRange returns active events within [from, to].
func (db *DB) ListActiveEventsRange(ctx context.Context, from, to string) ([]model.Event, error) {
	return db.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE date >= ? AND date <= ? AND status = ?
		ORDER BY date, start_time, id`,
		from, to, model.EventStatusActive)
}

// ListEvents returns all events ordered by date.
func (db *DB) ListEvents(ctx context.Context) ([]model.Event, error) {
	return db.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY date, start_time, id")
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
