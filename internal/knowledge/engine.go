package knowledge

import (
	"errors"
	"log"

	"github.com/atlasmet/extremecast/internal/metrics"
	"github.com/atlasmet/extremecast/internal/models"
)

// variableFields maps forecast variable names to the flat rule-record
// field names. A variable absent from a day leaves its field unset, and
// rules needing it are skipped for that day.
var variableFields = map[string]string{
	"mean_temperature":    "t_mean",
	"max_temperature":     "t_max",
	"min_temperature":     "t_min",
	"total_precipitation": "rain",
	"mean_windSpeed":      "wind",
	"mean_dewPoint":       "dew",
	"mean_visibility":     "vis",
}

func newRecord(day models.ForecastDay) Record {
	fields := make(map[string]float64, len(variableFields))
	for variable, field := range variableFields {
		if m, ok := day.Values[variable]; ok {
			fields[field] = m.Value
		}
	}
	return Record{Date: day.Date, fields: fields}
}

// criteria snapshots the day values an event was judged against.
func (r Record) criteria() map[string]any {
	return map[string]any{
		"t_max":            r.field("t_max"),
		"t_min":            r.field("t_min"),
		"t_mean":           r.field("t_mean"),
		"precipitation_mm": r.field("rain"),
		"wind_kmh":         r.field("wind"),
		"dew_point":        r.field("dew"),
		"visibility_km":    r.field("vis"),
	}
}

// DetectEvents evaluates every rule against every forecast day in
// declaration order, appends multi-day pattern events and deduplicates
// overlapping compound events. A rule evaluation failure skips only
// that rule for that day; the skip is logged and counted rather than
// silently swallowed.
func DetectEvents(forecast []models.ForecastDay) []models.Event {
	var events []models.Event

	for _, day := range forecast {
		rec := newRecord(day)
		for _, rule := range rules {
			fired, err := rule.Predicate(rec)
			if err != nil {
				if !errors.Is(err, ErrMissingField) {
					log.Printf("knowledge: rule %s on %s: %v", rule.ID, day.Date, err)
				}
				metrics.RulesSkipped.WithLabelValues(rule.ID).Inc()
				continue
			}
			if !fired {
				continue
			}
			events = append(events, models.Event{
				Date:        day.Date,
				EventID:     rule.ID,
				Type:        rule.Name,
				Description: rule.Description,
				Severity:    rule.Severity,
				Confidence:  rule.Confidence,
				Source:      rule.Source,
				Criteria:    rec.criteria(),
			})
		}
	}

	events = append(events, DetectPatterns(forecast)...)
	return Deduplicate(events)
}

// Annotate runs detection over an assembled forecast and returns a new
// forecast slice with events joined per date, plus the top-level
// summary and recommendations. The input days are not mutated.
func Annotate(forecast []models.ForecastDay) ([]models.ForecastDay, models.EventsPayload) {
	events := DetectEvents(forecast)

	byDate := make(map[string][]models.Event)
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	annotated := make([]models.ForecastDay, len(forecast))
	for i, day := range forecast {
		annotated[i] = models.ForecastDay{
			Date:   day.Date,
			Values: day.Values,
			Events: byDate[day.Date],
		}
	}

	return annotated, models.EventsPayload{
		Summary:         Summarize(events),
		Recommendations: Recommend(events),
	}
}
