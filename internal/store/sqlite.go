// Package store archives computed forecast runs and their detected
// events in sqlite. The archive is write-behind from the API layer; the
// pipeline core never touches it.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atlasmet/extremecast/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ForecastRun is one archived pipeline invocation.
type ForecastRun struct {
	ID            int64
	City          string
	Model         string
	GeneratedAt   string
	TotalEvents   int
	SeverityScore int
	MaxSeverity   sql.NullString
	ResultJSON    string
	CreatedAt     time.Time
}

// SaveRun records a computed result and its deduplicated events.
func (s *Store) SaveRun(city string, res *models.Result) (int64, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("marshal result: %w", err)
	}

	summary := res.Events.Summary
	maxSev := sql.NullString{String: string(summary.MaxSeverity), Valid: summary.MaxSeverity != ""}

	result, err := s.db.Exec(`
		INSERT INTO forecast_runs (city, model, generated_at, total_events, severity_score, max_severity, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, city, res.Metadata.Model, res.Metadata.GeneratedAt, summary.TotalEvents, summary.SeverityScore, maxSev, string(raw))
	if err != nil {
		return 0, fmt.Errorf("insert forecast run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, e := range summary.DetailedEvents {
		if _, err := s.db.Exec(`
			INSERT INTO run_events (run_id, date, event_id, type, description, severity, confidence, source)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, e.Date, e.EventID, e.Type, e.Description, e.Severity, e.Confidence, e.Source); err != nil {
			return runID, fmt.Errorf("insert run event %s: %w", e.EventID, err)
		}
	}
	return runID, nil
}

// GetRecentRuns returns the latest archived runs for a city, newest first.
func (s *Store) GetRecentRuns(city string, limit int) ([]ForecastRun, error) {
	rows, err := s.db.Query(`
		SELECT id, city, model, generated_at, total_events, severity_score, max_severity, result_json, created_at
		FROM forecast_runs
		WHERE city = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, city, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ForecastRun
	for rows.Next() {
		var r ForecastRun
		if err := rows.Scan(&r.ID, &r.City, &r.Model, &r.GeneratedAt, &r.TotalEvents, &r.SeverityScore, &r.MaxSeverity, &r.ResultJSON, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunEvents returns the archived events for one run.
func (s *Store) GetRunEvents(runID int64) ([]models.Event, error) {
	rows, err := s.db.Query(`
		SELECT date, event_id, type, description, severity, confidence, source
		FROM run_events
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var desc, source sql.NullString
		if err := rows.Scan(&e.Date, &e.EventID, &e.Type, &desc, &e.Severity, &e.Confidence, &source); err != nil {
			return nil, err
		}
		e.Description = desc.String
		e.Source = source.String
		events = append(events, e)
	}
	return events, rows.Err()
}
