package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quadralivre/internal/model"
)

const exceptionColumns = "id, date, opening_time, closing_time, is_closed, reason, created_at, updated_at"

func scanException(row interface{ Scan(...any) error }) (*model.ScheduleException, error) {
	var e model.ScheduleException
	var opening, closing, reason sql.NullString
	if err := row.Scan(&e.ID, &e.Date, &opening, &closing, &e.IsClosed, &reason, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if opening.Valid {
		e.OpeningTime = &opening.String
	}
	if closing.Valid {
		e.ClosingTime = &closing.String
	}
	if reason.Valid {
		e.Reason = reason.String
	}
	return &e, nil
}

// GetException returns the exception for a date, or nil when there is none.
func (db *DB) GetException(ctx context.Context, date string) (*model.ScheduleException, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+exceptionColumns+" FROM schedule_exceptions WHERE date = ? LIMIT 1", date)
	e, err := scanException(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get exception: %w", err)
	}
	return e, nil
}

// GetExceptionByID returns the exception with the given id, or nil.
func (db *DB) GetExceptionByID(ctx context.Context, id int64) (*model.ScheduleException, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+exceptionColumns+" FROM schedule_exceptions WHERE id = ?", id)
	e, err := scanException(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get exception by id: %w", err)
	}
	return e, nil
}

// CreateException inserts a date exception. Uniqueness on date is enforced
// by the schema.
func (db *DB) CreateException(ctx context.Context, e *model.ScheduleException) error {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO schedule_exceptions (date, opening_time, closing_time, is_closed, reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Date, e.OpeningTime, e.ClosingTime, e.IsClosed, e.Reason, now, now,
	)
	if err != nil {
		return fmt.Errorf("create exception: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

// UpdateException rewrites an exception.
func (db *DB) UpdateException(ctx context.Context, e *model.ScheduleException) error {
	_, err := db.ExecContext(ctx, `
		UPDATE schedule_exceptions
		SET date = ?, opening_time = ?, closing_time = ?, is_closed = ?, reason = ?, updated_at = ?
		WHERE id = ?`,
		e.Date, e.OpeningTime, e.ClosingTime, e.IsClosed, e.Reason, time.Now(), e.ID,
	)
	if err != nil {
		return fmt.Errorf("update exception: %w", err)
	}
	return nil
}

// DeleteException removes an exception by id.
func (db *DB) DeleteException(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, "DELETE FROM schedule_exceptions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete exception: %w", err)
	}
	return nil
}

// ListExceptions returns all exceptions ordered by date.
func (db *DB) ListExceptions(ctx context.Context) ([]model.ScheduleException, error) {
	return db.queryExceptions(ctx,
		"SELECT "+exceptionColumns+" FROM schedule_exceptions ORDER BY date, id")
}

// ListExceptionsRange returns exceptions within [from, to] inclusive.
func (db *DB) ListExceptionsRange(ctx context.Context, from, to string) ([]model.ScheduleException, error) {
	return db.queryExceptions(ctx,
		"SELECT "+exceptionColumns+" FROM schedule_exceptions WHERE date >= ? AND date <= ? ORDER BY date, id",
		from, to)
}

func (db *DB) queryExceptions(ctx context.Context, query string, args ...any) ([]model.ScheduleException, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exceptions: %w", err)
	}
	defer rows.Close()

	var out []model.ScheduleException
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
