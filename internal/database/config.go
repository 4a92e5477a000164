package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quadralivre/internal/model"
)

// GetScheduleConfig returns the live schedule config, or nil when no
// configuration has been written yet.
func (db *DB) GetScheduleConfig(ctx context.Context) (*model.ScheduleConfig, error) {
	var c model.ScheduleConfig
	var weekdays string
	err := db.QueryRowContext(ctx, `
		SELECT id, opening_time, closing_time, slot_duration, active_weekdays, timezone, created_at, updated_at
		FROM schedule_config
		ORDER BY id
		LIMIT 1`,
	).Scan(&c.ID, &c.OpeningTime, &c.ClosingTime, &c.SlotDurationMinutes, &weekdays, &c.Timezone, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule config: %w", err)
	}
	c.ActiveWeekdays = parseWeekdays(weekdays)
	return &c, nil
}

// UpsertScheduleConfig writes the configuration, creating the row on the
// first write and replacing it afterwards. Stray duplicate rows are pruned
// so at most one row stays live. Returns whether the row was created.
func (db *DB) UpsertScheduleConfig(ctx context.Context, c *model.ScheduleConfig) (bool, error) {
	existing, err := db.GetScheduleConfig(ctx)
	if err != nil {
		return false, err
	}

	now := time.Now()
	weekdays := formatWeekdays(c.ActiveWeekdays)

	if existing != nil {
		_, err = db.ExecContext(ctx, `
			UPDATE schedule_config
			SET opening_time = ?, closing_time = ?, slot_duration = ?, active_weekdays = ?, timezone = ?, updated_at = ?
			WHERE id = ?`,
			c.OpeningTime, c.ClosingTime, c.SlotDurationMinutes, weekdays, c.Timezone, now, existing.ID,
		)
		if err != nil {
			return false, fmt.Errorf("update schedule config: %w", err)
		}
		c.ID = existing.ID
	} else {
		res, err := db.ExecContext(ctx, `
			INSERT INTO schedule_config (opening_time, closing_time, slot_duration, active_weekdays, timezone, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.OpeningTime, c.ClosingTime, c.SlotDurationMinutes, weekdays, c.Timezone, now, now,
		)
		if err != nil {
			return false, fmt.Errorf("insert schedule config: %w", err)
		}
		c.ID, _ = res.LastInsertId()
	}

	// Singleton invariant: remove any stray rows.
	if _, err := db.ExecContext(ctx, "DELETE FROM schedule_config WHERE id != ?", c.ID); err != nil {
		return false, fmt.Errorf("prune schedule config: %w", err)
	}

	return existing == nil, nil
}

func parseWeekdays(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days
}

func formatWeekdays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}
