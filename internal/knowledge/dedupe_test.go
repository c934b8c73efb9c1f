package knowledge

import (
	"testing"

	"github.com/atlasmet/extremecast/internal/models"
)

func TestDeduplicateCompoundWinner(t *testing.T) {
	// One catastrophic day: both storm compounds fire alongside four
	// independent signals. Only the higher-severity compound survives and
	// it leads the day's output.
	d := day("2024-09-01", 15, 46, -12, 85, 95, 5, 10)
	events := DetectEvents([]models.ForecastDay{d})

	want := []string{
		"extreme_storm",
		"extreme_heat",
		"extreme_cold",
		"extreme_rainfall",
		"flash_flood_risk",
	}
	got := eventIDs(events)
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	for _, e := range events {
		if e.EventID == "severe_storm" {
			t.Error("severe_storm survived dedup against extreme_storm")
		}
	}
}

func TestDeduplicateSeverityTieKeepsDeclarationOrder(t *testing.T) {
	// severe_storm and humid_heat are both HIGH; the rule table lists
	// severe_storm first, so the stable sort keeps it.
	d := day("2024-09-02", 25, 39, 20, 40, 80, 25, 10)
	events := DetectEvents([]models.ForecastDay{d})

	var compounds []string
	for _, e := range events {
		if compoundIDs[e.EventID] {
			compounds = append(compounds, e.EventID)
		}
	}
	if len(compounds) != 1 || compounds[0] != "severe_storm" {
		t.Errorf("surviving compounds = %v, want [severe_storm]", compounds)
	}
}

func TestDeduplicateGroupsPerDate(t *testing.T) {
	events := []models.Event{
		{Date: "2024-09-01", EventID: "severe_storm", Severity: models.SeverityHigh},
		{Date: "2024-09-02", EventID: "fire_weather", Severity: models.SeverityHigh},
		{Date: "2024-09-01", EventID: "extreme_storm", Severity: models.SeverityExtreme},
	}
	got := eventIDs(Deduplicate(events))
	// Dates keep first-appearance order; each date dedups independently.
	want := []string{"extreme_storm", "fire_weather"}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDeduplicateLeavesNonCompoundsAlone(t *testing.T) {
	events := []models.Event{
		{Date: "2024-09-01", EventID: "extreme_rainfall", Severity: models.SeverityExtreme},
		{Date: "2024-09-01", EventID: "flash_flood_risk", Severity: models.SeverityHigh},
		{Date: "2024-09-03 to 2024-09-05", EventID: "heat_wave", Severity: models.SeverityHigh},
	}
	got := Deduplicate(events)
	if len(got) != 3 {
		t.Fatalf("len = %d, want all 3 preserved", len(got))
	}
}
