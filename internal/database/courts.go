package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quadralivre/internal/model"
)

const courtColumns = "id, name, type, active, sort_order, capacity, created_at, updated_at"

func scanCourt(row interface{ Scan(...any) error }) (*model.Court, error) {
	var c model.Court
	var courtType sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &courtType, &c.Active, &c.SortOrder, &c.Capacity, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if courtType.Valid {
		c.Type = courtType.String
	}
	return &c, nil
}

// ListCourts returns all courts ordered for display.
func (db *DB) ListCourts(ctx context.Context, activeOnly bool) ([]model.Court, error) {
	query := "SELECT " + courtColumns + " FROM courts"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY sort_order, name"

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	defer rows.Close()

	var courts []model.Court
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		courts = append(courts, *c)
	}
	return courts, rows.Err()
}

// GetCourt returns a court by id, or nil when it does not exist.
func (db *DB) GetCourt(ctx context.Context, id int64) (*model.Court, error) {
	row := db.QueryRowContext(ctx, "SELECT "+courtColumns+" FROM courts WHERE id = ?", id)
	c, err := scanCourt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get court: %w", err)
	}
	return c, nil
}

// CreateCourt inserts a court.
func (db *DB) CreateCourt(ctx context.Context, c *model.Court) error {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO courts (name, type, active, sort_order, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Type, c.Active, c.SortOrder, c.Capacity, now, now,
	)
	if err != nil {
		return fmt.Errorf("create court: %w", err)
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

// UpdateCourt updates court attributes.
func (db *DB) UpdateCourt(ctx context.Context, c *model.Court) error {
	_, err := db.ExecContext(ctx, `
		UPDATE courts
		SET name = ?, type = ?, sort_order = ?, capacity = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Type, c.SortOrder, c.Capacity, time.Now(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update court: %w", err)
	}
	return nil
}

// SetCourtActive toggles whether the court is bookable.
func (db *DB) SetCourtActive(ctx context.Context, id int64, active bool) error {
	_, err := db.ExecContext(ctx,
		"UPDATE courts SET active = ?, updated_at = ? WHERE id = ?",
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("set court active: %w", err)
	}
	return nil
}
