package store

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/atlasmet/extremecast/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db)
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func sampleResult(generatedAt string) *models.Result {
	return &models.Result{
		Metadata: models.Metadata{
			Model:       "WeatherLSTM",
			HorizonDays: models.Horizon,
			GeneratedAt: generatedAt,
		},
		Events: models.EventsPayload{
			Summary: models.EventSummary{
				TotalEvents:   2,
				SeverityScore: 7,
				MaxSeverity:   models.SeverityExtreme,
				DetailedEvents: []models.DetailedEvent{
					{
						Date:        "2024-01-22",
						EventID:     "extreme_heat",
						Type:        "Extreme Heat",
						Description: "Dangerously high temperature - red alert level",
						Severity:    models.SeverityExtreme,
						Confidence:  models.ConfidenceHigh,
						Source:      "DGM red alert threshold",
					},
					{
						Date:       "2024-01-23",
						EventID:    "flash_flood_risk",
						Type:       "Flash Flood Risk",
						Severity:   models.SeverityHigh,
						Confidence: models.ConfidenceHigh,
					},
				},
			},
			Recommendations: []string{"stay indoors"},
		},
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestSaveAndGetRuns(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.SaveRun("casablanca", sampleResult("2024-01-21T18:00:00Z"))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	id2, err := s.SaveRun("casablanca", sampleResult("2024-01-22T06:00:00Z"))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := s.SaveRun("rabat", sampleResult("2024-01-21T18:00:00Z")); err != nil {
		t.Fatalf("SaveRun other city: %v", err)
	}

	runs, err := s.GetRecentRuns("casablanca", 10)
	if err != nil {
		t.Fatalf("GetRecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	// Newest first.
	if runs[0].ID != id2 || runs[1].ID != id1 {
		t.Errorf("run order = [%d %d], want [%d %d]", runs[0].ID, runs[1].ID, id2, id1)
	}
	if runs[0].TotalEvents != 2 || runs[0].SeverityScore != 7 {
		t.Errorf("run = %+v", runs[0])
	}
	if !runs[0].MaxSeverity.Valid || runs[0].MaxSeverity.String != "EXTREME" {
		t.Errorf("MaxSeverity = %+v, want EXTREME", runs[0].MaxSeverity)
	}
	if runs[0].ResultJSON == "" {
		t.Error("ResultJSON empty")
	}
}

func TestGetRecentRunsLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 4; i++ {
		if _, err := s.SaveRun("fes", sampleResult("2024-01-21T18:00:00Z")); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	runs, err := s.GetRecentRuns("fes", 2)
	if err != nil {
		t.Fatalf("GetRecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("len(runs) = %d, want 2", len(runs))
	}
}

func TestGetRunEvents(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.SaveRun("tangier", sampleResult("2024-01-21T18:00:00Z"))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	events, err := s.GetRunEvents(runID)
	if err != nil {
		t.Fatalf("GetRunEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].EventID != "extreme_heat" || events[1].EventID != "flash_flood_risk" {
		t.Errorf("events = [%s %s]", events[0].EventID, events[1].EventID)
	}
	if events[0].Severity != models.SeverityExtreme {
		t.Errorf("severity = %s", events[0].Severity)
	}
	// Nullable columns come back as empty strings.
	if events[1].Description != "" || events[1].Source != "" {
		t.Errorf("nullable fields = %q %q", events[1].Description, events[1].Source)
	}
}

func TestSaveRunNoMaxSeverity(t *testing.T) {
	s := openTestStore(t)
	res := sampleResult("2024-01-21T18:00:00Z")
	res.Events.Summary = models.EventSummary{}

	runID, err := s.SaveRun("agadir", res)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	runs, err := s.GetRecentRuns("agadir", 1)
	if err != nil {
		t.Fatalf("GetRecentRuns: %v", err)
	}
	if runs[0].ID != runID || runs[0].MaxSeverity.Valid {
		t.Errorf("run = %+v, want null max_severity", runs[0])
	}
	events, err := s.GetRunEvents(runID)
	if err != nil {
		t.Fatalf("GetRunEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}
