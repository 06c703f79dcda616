// Package database is the Postgres layer for the development event store
// server (cmd/eventstored), which stands in for the production events
// collection and stats service during local development.
package database

import (
	"database/sql"

	"github.com/google/uuid"

	"school-calendar/app/models"
)

// EnsureSchema creates the events and stats tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			class_label TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			start_time TEXT NOT NULL DEFAULT '',
			end_time TEXT NOT NULL DEFAULT '',
			all_day BOOLEAN NOT NULL DEFAULT FALSE,
			reminder BOOLEAN NOT NULL DEFAULT FALSE,
			color TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS stats (
			name TEXT PRIMARY KEY,
			value BIGINT NOT NULL DEFAULT 0
		)
	`)
	return err
}

// CreateEvent assigns a fresh identifier and inserts the event.
// Identifiers are random UUIDs, so deleted ids are never reused.
func CreateEvent(db *sql.DB, event *models.CalendarEvent) error {
	event.ID = uuid.NewString()
	query := `
		INSERT INTO events (id, title, date, category, class_label, description,
			location, start_time, end_time, all_day, reminder, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := db.Exec(query,
		event.ID, event.Title, event.Date, event.Category, event.ClassLabel,
		event.Description, event.Location, event.StartTime, event.EndTime,
		event.AllDay, event.Reminder, event.Color,
	)
	return err
}

// GetEvents retrieves all events ordered by date.
func GetEvents(db *sql.DB) ([]models.CalendarEvent, error) {
	query := `
		SELECT id, title, date, category, class_label, description,
			location, start_time, end_time, all_day, reminder, color
		FROM events
		ORDER BY date ASC, created_at ASC
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Date, &e.Category, &e.ClassLabel, &e.Description,
			&e.Location, &e.StartTime, &e.EndTime, &e.AllDay, &e.Reminder, &e.Color,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateEvent replaces the full field set of an existing event. Returns
// false when no row matched the identifier.
func UpdateEvent(db *sql.DB, event *models.CalendarEvent) (bool, error) {
	query := `
		UPDATE events
		SET title = $1, date = $2, category = $3, class_label = $4,
			description = $5, location = $6, start_time = $7, end_time = $8,
			all_day = $9, reminder = $10, color = $11, updated_at = NOW()
		WHERE id = $12
	`
	res, err := db.Exec(query,
		event.Title, event.Date, event.Category, event.ClassLabel,
		event.Description, event.Location, event.StartTime, event.EndTime,
		event.AllDay, event.Reminder, event.Color, event.ID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteEvent deletes an event by identifier, reporting whether it existed.
func DeleteEvent(db *sql.DB, id string) (bool, error) {
	res, err := db.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// IncrementStat bumps the named counter by one.
func IncrementStat(db *sql.DB, name string) error {
	_, err := db.Exec(`
		INSERT INTO stats (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = stats.value + 1
	`, name)
	return err
}

// ResyncStats recomputes the event aggregates from the events table: a
// total count plus one counter per category.
func ResyncStats(db *sql.DB) error {
	rows, err := db.Query(`SELECT category, COUNT(*) FROM events GROUP BY category`)
	if err != nil {
		return err
	}
	defer rows.Close()

	counts := map[string]int64{}
	var total int64
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return err
		}
		counts["events_"+category] = count
		total += count
	}
	if err := rows.Err(); err != nil {
		return err
	}
	counts["events_total"] = total

	for name, value := range counts {
		if _, err := db.Exec(`
			INSERT INTO stats (name, value) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value
		`, name, value); err != nil {
			return err
		}
	}
	return nil
}

// GetStats returns every counter.
func GetStats(db *sql.DB) (map[string]int64, error) {
	rows, err := db.Query(`SELECT name, value FROM stats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int64)
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		stats[name] = value
	}
	return stats, rows.Err()
}
