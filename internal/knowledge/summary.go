package knowledge

import (
	"sort"
	"strings"

	"github.com/atlasmet/extremecast/internal/models"
)

// categoryMap assigns every known event id to its summary category.
// Shared by the summary statistics and the recommendation catalog.
var categoryMap = map[string]string{
	"extreme_heat":              "Heat",
	"very_high_heat":            "Heat",
	"high_heat":                 "Heat",
	"tropical_night":            "Heat",
	"heat_wave":                 "Heat",
	"severe_heat_wave":          "Heat",
	"extreme_cold":              "Cold",
	"severe_freeze":             "Cold",
	"freeze":                    "Cold",
	"near_freeze":               "Cold",
	"cold_wave":                 "Cold",
	"cold_snap":                 "Cold",
	"extreme_rainfall":          "Precipitation",
	"very_heavy_rain":           "Precipitation",
	"heavy_rain":                "Precipitation",
	"flash_flood_risk":          "Precipitation",
	"prolonged_heavy_rain":      "Precipitation",
	"dry_spell":                 "Drought",
	"violent_wind":              "Wind",
	"very_strong_wind":          "Wind",
	"strong_wind":               "Wind",
	"moderate_wind":             "Wind",
	"fire_weather":              "Compound",
	"extreme_storm":             "Compound",
	"severe_storm":              "Compound",
	"humid_heat":                "Compound",
	"extremely_poor_visibility": "Visibility",
	"very_poor_visibility":      "Visibility",
	"fog_conditions":            "Visibility",
}

func category(eventID string) string {
	if c, ok := categoryMap[eventID]; ok {
		return c
	}
	return "Other"
}

// severityRank is the fixed ordering used for max-severity selection.
var severityRank = []models.Severity{
	models.SeverityExtreme,
	models.SeverityHigh,
	models.SeverityModerate,
	models.SeverityLow,
}

// Summarize derives the aggregate view of a deduplicated event list:
// distribution counts, weighted severity score, high-risk days, the
// chronological timeline and the top-5 most-affected single dates.
// Range-labeled multi-day events are excluded from the affected-day
// ranking.
func Summarize(events []models.Event) models.EventSummary {
	summary := models.EventSummary{
		SeverityDistribution: map[models.Severity]int{},
		EventTypes:           map[string]int{},
		EventCategories:      map[string]int{},
		HighRiskDays:         []models.HighRiskDay{},
		MostAffectedDays:     []models.AffectedDay{},
		EventTimeline:        []models.TimelineEntry{},
		DetailedEvents:       []models.DetailedEvent{},
	}
	if len(events) == 0 {
		return summary
	}

	summary.TotalEvents = len(events)

	var affectedOrder []string
	affectedCounts := make(map[string]int)

	for _, e := range events {
		summary.SeverityDistribution[e.Severity]++
		summary.EventTypes[e.Type]++

		cat := category(e.EventID)
		summary.EventCategories[cat]++

		if e.Severity == models.SeverityExtreme || e.Severity == models.SeverityHigh {
			summary.HighRiskDays = append(summary.HighRiskDays, models.HighRiskDay{
				Date:        e.Date,
				Type:        e.Type,
				Severity:    e.Severity,
				Description: e.Description,
				Category:    cat,
			})
		}

		summary.EventTimeline = append(summary.EventTimeline, models.TimelineEntry{
			Date:     e.Date,
			EventID:  e.EventID,
			Type:     e.Type,
			Severity: e.Severity,
			Category: cat,
		})

		summary.DetailedEvents = append(summary.DetailedEvents, models.DetailedEvent{
			Date:        e.Date,
			EventID:     e.EventID,
			Type:        e.Type,
			Description: e.Description,
			Severity:    e.Severity,
			Confidence:  e.Confidence,
			Category:    cat,
			Source:      e.Source,
			Criteria:    e.Criteria,
		})

		// Only single-day events count toward the affected ranking.
		if !strings.Contains(e.Date, " to ") {
			if _, ok := affectedCounts[e.Date]; !ok {
				affectedOrder = append(affectedOrder, e.Date)
			}
			affectedCounts[e.Date]++
		}
	}

	sort.SliceStable(summary.EventTimeline, func(i, j int) bool {
		return summary.EventTimeline[i].Date < summary.EventTimeline[j].Date
	})

	for _, sev := range severityRank {
		if summary.SeverityDistribution[sev] > 0 {
			summary.MaxSeverity = sev
			break
		}
	}

	for sev, n := range summary.SeverityDistribution {
		summary.SeverityScore += sev.Weight() * n
	}

	affected := make([]models.AffectedDay, 0, len(affectedOrder))
	for _, date := range affectedOrder {
		affected = append(affected, models.AffectedDay{Date: date, EventCount: affectedCounts[date]})
	}
	sort.SliceStable(affected, func(i, j int) bool {
		return affected[i].EventCount > affected[j].EventCount
	})
	if len(affected) > 5 {
		affected = affected[:5]
	}
	summary.MostAffectedDays = affected

	summary.Statistics = models.Statistics{
		ExtremeEvents:          summary.SeverityDistribution[models.SeverityExtreme],
		HighSeverityEvents:     summary.SeverityDistribution[models.SeverityHigh],
		ModerateSeverityEvents: summary.SeverityDistribution[models.SeverityModerate],
		LowSeverityEvents:      summary.SeverityDistribution[models.SeverityLow],
		HeatRelated:            summary.EventCategories["Heat"],
		ColdRelated:            summary.EventCategories["Cold"],
		PrecipitationRelated:   summary.EventCategories["Precipitation"],
		WindRelated:            summary.EventCategories["Wind"],
		CompoundEvents:         summary.EventCategories["Compound"],
		DroughtRelated:         summary.EventCategories["Drought"],
		VisibilityRelated:      summary.EventCategories["Visibility"],
	}

	return summary
}
