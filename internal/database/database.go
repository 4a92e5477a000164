package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sql.DB for the reservation service.
type DB struct {
	*sql.DB
}

// New opens the database at path and runs migrations.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Courts
		`CREATE TABLE IF NOT EXISTS courts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			type TEXT,
			active BOOLEAN NOT NULL DEFAULT 1,
			sort_order INTEGER NOT NULL DEFAULT 0,
			capacity INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Schedule config (singleton row, enforced by upsert)
		`CREATE TABLE IF NOT EXISTS schedule_config (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			opening_time TEXT NOT NULL,
			closing_time TEXT NOT NULL,
			slot_duration INTEGER NOT NULL DEFAULT 60,
			active_weekdays TEXT NOT NULL DEFAULT '',
			timezone TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Date exceptions over the weekly schedule
		`CREATE TABLE IF NOT EXISTS schedule_exceptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT UNIQUE NOT NULL,
			opening_time TEXT,
			closing_time TEXT,
			is_closed BOOLEAN NOT NULL DEFAULT 0,
			reason TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Blackout windows, court-scoped or global
		`CREATE TABLE IF NOT EXISTS blackout_windows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			court_id INTEGER,
			date TEXT NOT NULL,
			start_time TEXT,
			end_time TEXT,
			reason TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (court_id) REFERENCES courts(id)
		)`,

		// Calendar events
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			visibility TEXT NOT NULL DEFAULT 'public',
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Reservations
		`CREATE TABLE IF NOT EXISTS reservations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT UNIQUE NOT NULL,
			court_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			client_name TEXT,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (court_id) REFERENCES courts(id)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_courts_active ON courts(active)`,
		`CREATE INDEX IF NOT EXISTS idx_exceptions_date ON schedule_exceptions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_blackouts_date ON blackout_windows(date, court_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date, status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_slot ON reservations(court_id, date, start_time, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations(user_id, date)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}

// PingContext checks connectivity for readiness probes.
func (db *DB) PingContext(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}
