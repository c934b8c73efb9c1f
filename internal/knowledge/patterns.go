package knowledge

import (
	"fmt"
	"strconv"

	"github.com/atlasmet/extremecast/internal/models"
)

// patternDay is the reduced view the multi-day detectors scan over.
type patternDay struct {
	date  string
	tMean float64
	tMax  float64
	tMin  float64
	rain  float64
	wind  float64
}

func patternDays(forecast []models.ForecastDay) []patternDay {
	days := make([]patternDay, len(forecast))
	for i, d := range forecast {
		days[i] = patternDay{
			date:  d.Date,
			tMean: d.Values["mean_temperature"].Value,
			tMax:  d.Values["max_temperature"].Value,
			tMin:  d.Values["min_temperature"].Value,
			rain:  d.Values["total_precipitation"].Value,
			wind:  d.Values["mean_windSpeed"].Value,
		}
	}
	return days
}

// rangeLabel formats a multi-day event date field. Range labels never
// collide with single ISO dates, which later grouping relies on.
func rangeLabel(first, last patternDay) string {
	return fmt.Sprintf("%s to %s", first.date, last.date)
}

// longestRun scans sequentially, accumulating a run while pred holds.
// A just-ended run replaces the best only when it meets minDays and is
// strictly longer, so ties keep the first-found run; the trailing run
// is checked once more after the scan.
func longestRun(days []patternDay, pred func(patternDay) bool, minDays int) []patternDay {
	var run, best []patternDay
	for _, d := range days {
		if pred(d) {
			run = append(run, d)
			continue
		}
		if len(run) >= minDays && len(run) > len(best) {
			best = append([]patternDay(nil), run...)
		}
		run = nil
	}
	if len(run) >= minDays && len(run) > len(best) {
		best = run
	}
	if len(best) < minDays {
		return nil
	}
	return best
}

func runTempRange(run []patternDay, get func(patternDay) float64) string {
	lo, hi := get(run[0]), get(run[0])
	for _, d := range run[1:] {
		v := get(d)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return fmt.Sprintf("%s-%s°C",
		strconv.FormatFloat(lo, 'f', -1, 64),
		strconv.FormatFloat(hi, 'f', -1, 64))
}

// DetectPatterns runs the multi-day detectors over the full ordered
// forecast horizon. Only the single longest qualifying run is reported
// per run-based pattern; the sliding-sum detector reports only the
// first qualifying window; the adjacent-delta detector reports every
// qualifying pair.
func DetectPatterns(forecast []models.ForecastDay) []models.Event {
	days := patternDays(forecast)
	var patterns []models.Event

	// Heat wave: 3+ consecutive days at max temp >= 40°C.
	if run := longestRun(days, func(d patternDay) bool { return d.tMax >= 40.0 }, 3); run != nil {
		patterns = append(patterns, models.Event{
			Date:        rangeLabel(run[0], run[len(run)-1]),
			EventID:     "heat_wave",
			Type:        "Heat Wave",
			Description: fmt.Sprintf("Heat wave: %d consecutive days >= 40°C", len(run)),
			Severity:    models.SeverityHigh,
			Confidence:  models.ConfidenceHigh,
			Source:      "DGM warnings for 40°C+ lasting 3+ days",
			Criteria: map[string]any{
				"duration_days":  len(run),
				"max_temp_range": runTempRange(run, func(d patternDay) float64 { return d.tMax }),
			},
		})
	}

	// Severe heat wave: 5+ consecutive days at >= 42°C.
	if run := longestRun(days, func(d patternDay) bool { return d.tMax >= 42.0 }, 5); run != nil {
		patterns = append(patterns, models.Event{
			Date:        rangeLabel(run[0], run[len(run)-1]),
			EventID:     "severe_heat_wave",
			Type:        "Severe Heat Wave",
			Description: fmt.Sprintf("Severe heat wave: %d consecutive days >= 42°C", len(run)),
			Severity:    models.SeverityExtreme,
			Confidence:  models.ConfidenceHigh,
			Source:      "Heat waves 5+ days with 42°C+ considered severe",
			Criteria: map[string]any{
				"duration_days":  len(run),
				"max_temp_range": runTempRange(run, func(d patternDay) float64 { return d.tMax }),
			},
		})
	}

	// Cold wave: 3+ consecutive days with min temp <= 5°C.
	if run := longestRun(days, func(d patternDay) bool { return d.tMin <= 5.0 }, 3); run != nil {
		patterns = append(patterns, models.Event{
			Date:        rangeLabel(run[0], run[len(run)-1]),
			EventID:     "cold_wave",
			Type:        "Cold Wave",
			Description: fmt.Sprintf("Cold wave: %d consecutive days with min temp <= 5°C", len(run)),
			Severity:    models.SeverityModerate,
			Confidence:  models.ConfidenceHigh,
			Source:      "Cold waves in Morocco: 3+ days around 5°C or lower",
			Criteria: map[string]any{
				"duration_days":  len(run),
				"min_temp_range": runTempRange(run, func(d patternDay) float64 { return d.tMin }),
			},
		})
	}

	// Dry spell: 7+ consecutive days under 1mm.
	if run := longestRun(days, func(d patternDay) bool { return d.rain < 1.0 }, 7); run != nil {
		total := 0.0
		for _, d := range run {
			total += d.rain
		}
		patterns = append(patterns, models.Event{
			Date:        rangeLabel(run[0], run[len(run)-1]),
			EventID:     "dry_spell",
			Type:        "Dry Spell",
			Description: fmt.Sprintf("Dry spell: %d consecutive days without rain", len(run)),
			Severity:    models.SeverityModerate,
			Confidence:  models.ConfidenceHigh,
			Source:      "7+ dry days impacts agriculture",
			Criteria: map[string]any{
				"duration_days":          len(run),
				"total_precipitation_mm": total,
			},
		})
	}

	// Prolonged heavy rain: first 3-day window summing >= 100mm only.
	for i := 0; i+2 < len(days); i++ {
		sum := days[i].rain + days[i+1].rain + days[i+2].rain
		if sum >= 100.0 {
			patterns = append(patterns, models.Event{
				Date:        rangeLabel(days[i], days[i+2]),
				EventID:     "prolonged_heavy_rain",
				Type:        "Prolonged Heavy Rain",
				Description: fmt.Sprintf("Prolonged heavy rainfall: %.1fmm over 3 days", sum),
				Severity:    models.SeverityHigh,
				Confidence:  models.ConfidenceHigh,
				Source:      "100mm+ over 3 days causes widespread flooding",
				Criteria: map[string]any{
					"total_precipitation_mm": sum,
					"duration_days":          3,
				},
			})
			break
		}
	}

	// Cold snap: every adjacent-day mean temp drop of 15°C or more.
	for i := 0; i+1 < len(days); i++ {
		drop := days[i].tMean - days[i+1].tMean
		if drop >= 15.0 {
			patterns = append(patterns, models.Event{
				Date:        rangeLabel(days[i], days[i+1]),
				EventID:     "cold_snap",
				Type:        "Cold Snap",
				Description: fmt.Sprintf("Sudden temperature drop: %.1f°C in 24 hours", drop),
				Severity:    models.SeverityModerate,
				Confidence:  models.ConfidenceHigh,
				Source:      "15°C+ drops indicate cold fronts",
				Criteria: map[string]any{
					"temperature_drop": drop,
					"from_temp":        days[i].tMean,
					"to_temp":          days[i+1].tMean,
				},
			})
		}
	}

	return patterns
}
