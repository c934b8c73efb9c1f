// Package knowledge evaluates the fixed meteorological rule base over
// an assembled forecast: per-day threshold rules, multi-day pattern
// detectors, compound-event deduplication and severity-ranked
// summaries. Rule declaration order is a first-class contract: it
// drives evaluation order and dedup tie-breaks.
package knowledge

import (
	"errors"
	"fmt"

	"github.com/atlasmet/extremecast/internal/models"
)

// ErrMissingField reports a day record without the variable a rule
// needs. The rule is skipped for that day; the day is never rejected.
var ErrMissingField = errors.New("missing field")

// Record is the flat per-day view the rules evaluate against.
type Record struct {
	Date   string
	fields map[string]float64
}

// take fetches the named fields in order, failing on the first absent one.
func (r Record) take(names ...string) ([]float64, error) {
	vals := make([]float64, len(names))
	for i, name := range names {
		v, ok := r.fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		vals[i] = v
	}
	return vals, nil
}

func (r Record) field(name string) float64 {
	return r.fields[name]
}

// Rule is one immutable single-day rule. Predicates are pure; an error
// return means the rule could not be evaluated for the day.
type Rule struct {
	ID          string
	Name        string
	Description string
	Severity    models.Severity
	Confidence  models.Confidence
	Source      string
	Predicate   func(Record) (bool, error)
}

// rules is the knowledge base in fixed declaration order. Thresholds
// are inclusive as written and reproduced exactly, including the freeze
// rule's unsatisfiable band (0 < t_min <= -5), which is kept literally.
var rules = []Rule{
	{
		ID:          "extreme_heat",
		Name:        "Extreme Heat",
		Description: "Dangerously high temperature - red alert level",
		Severity:    models.SeverityExtreme,
		Confidence:  models.ConfidenceHigh,
		Source:      "Morocco recorded 50.4°C in 2023; DGM red alert threshold",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("t_max")
			if err != nil {
				return false, err
			}
			return v[0] >= 45.0, nil
		},
	},
	{
		ID:          "high_heat",
		Name:        "High Heat",
		Description: "Hot conditions requiring precautions",
		Severity:    models.SeverityModerate,
		Confidence:  models.ConfidenceHigh,
		Source:      "Sustained heat affecting health and agriculture",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("t_max")
			if err != nil {
				return false, err
			}
			return v[0] >= 38.0 && v[0] < 40.0, nil
		},
	},
	{
		ID:          "tropical_night",
		Name:        "Tropical Night",
		Description: "Oppressive nighttime heat - health risk",
		Severity:    models.SeverityModerate,
		Confidence:  models.ConfidenceHigh,
		Source:      "Morocco heat risk framework: 26°C+ minimum",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("t_min")
			if err != nil {
				return false, err
			}
			return v[0] >= 26.0, nil
		},
	},
	{
		ID:          "extreme_cold",
		Name:        "Extreme Cold",
		Description: "Dangerously low temperatures",
		Severity:    models.SeverityExtreme,
		Confidence:  models.ConfidenceHigh,
		Source:      "2017 cold wave: -13°C recorded in Morocco",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("t_min")
			if err != nil {
				return false, err
			}
			return v[0] <= -10.0, nil
		},
	},
	{
		ID:          "severe_freeze",
		Name:        "Severe Freeze",
		Description: "Severe freezing conditions",
		Severity:    models.SeverityHigh,
		Confidence:  models.ConfidenceHigh,
		Source:      "2018 cold wave: -5°C; severe agricultural impact",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("t_min")
			if err != nil {
				return false, err
			}
			return v[0] > -10.0 && v[0] <= -5.0, nil
		},
	},
	{
		ID:          "freeze",
		Name:        "Freeze",
		Description: "Freezing temperatures - agricultural risk",
		Severity:    models.SeverityModerate,
		Confidence:  models.ConfidenceHigh,
		Source:      "Frost impacts crops in Atlas regions",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("t_min")
			if err != nil {
				return false, err
			}
			// Bounds are contradictory as published; no value satisfies them.
			return v[0] > 0.0 && v[0] <= -5.0, nil
		},
	},
	{
		ID:          "near_freeze",
		Name:        "Near Freeze",
		Description: "Near-freezing conditions",
		Severity:    models.SeverityLow,
		Confidence:  models.ConfidenceModerate,
		Source:      "Frost risk for sensitive vegetation",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("t_min")
			if err != nil {
				return false, err
			}
			return v[0] >= 0.0 && v[0] <= 2.0, nil
		},
	},
	{
		ID:          "extreme_rainfall",
		Name:        "Extreme Rainfall",
		Description: "Extreme precipitation - red alert, major flood risk",
		Severity:    models.SeverityExtreme,
		Confidence:  models.ConfidenceHigh,
		Source:      "DGM red alert: 80-120mm; recent floods from such amounts",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("rain")
			if err != nil {
				return false, err
			}
			return v[0] >= 80.0, nil
		},
	},
	{
		ID:          "heavy_rain",
		Name:        "Heavy Rain",
		Description: "Heavy precipitation - orange alert",
		Severity:    models.SeverityModerate,
		Confidence:  models.ConfidenceHigh,
		Source:      "DGM orange alert threshold: 30mm+",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("rain")
			if err != nil {
				return false, err
			}
			return v[0] >= 30.0 && v[0] < 50.0, nil
		},
	},
	{
		ID:          "flash_flood_risk",
		Name:        "Flash Flood Risk",
		Description: "Critical flash flood conditions",
		Severity:    models.SeverityHigh,
		Confidence:  models.ConfidenceHigh,
		Source:      "37mm caused deadly Safi floods (Dec 2025)",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("rain")
			if err != nil {
				return false, err
			}
			return v[0] >= 37.0, nil
		},
	},
	{
		ID:          "violent_wind",
		Name:        "Violent Wind",
		Description: "Extremely dangerous wind conditions",
		Severity:    models.SeverityExtreme,
		Confidence:  models.ConfidenceHigh,
		Source:      "100+ km/h: DGM red alert; Storm Francis 2026",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("wind")
			if err != nil {
				return false, err
			}
			return v[0] >= 100.0, nil
		},
	},
	{
		ID:          "strong_wind",
		Name:        "Strong Wind",
		Description: "Strong winds requiring precautions",
		Severity:    models.SeverityModerate,
		Confidence:  models.ConfidenceHigh,
		Source:      "DGM orange alert: 75-90 km/h",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("wind")
			if err != nil {
				return false, err
			}
			return v[0] >= 75.0 && v[0] < 90.0, nil
		},
	},
	{
		ID:          "moderate_wind",
		Name:        "Moderate Wind",
		Description: "Elevated wind speeds",
		Severity:    models.SeverityLow,
		Confidence:  models.ConfidenceModerate,
		Source:      "Moderate winds affecting outdoor activities",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("wind")
			if err != nil {
				return false, err
			}
			return v[0] >= 50.0 && v[0] < 75.0, nil
		},
	},
	{
		ID:          "fire_weather",
		Name:        "Fire Weather",
		Description: "Extreme fire danger - hot, dry, windy",
		Severity:    models.SeverityHigh,
		Confidence:  models.ConfidenceHigh,
		Source:      "Heat + low humidity + wind causes forest fires",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("t_max", "dew", "wind", "rain")
			if err != nil {
				return false, err
			}
			return v[0] >= 38.0 && v[1] <= 10.0 && v[2] >= 40.0 && v[3] < 1.0, nil
		},
	},
	{
		ID:          "extreme_storm",
		Name:        "Extreme Storm",
		Description: "Extreme storm - heavy rain + violent winds",
		Severity:    models.SeverityExtreme,
		Confidence:  models.ConfidenceHigh,
		Source:      "Red alert: extreme rain + violent wind combination",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("rain", "wind")
			if err != nil {
				return false, err
			}
			return v[0] >= 80.0 && v[1] >= 90.0, nil
		},
	},
	{
		ID:          "severe_storm",
		Name:        "Severe Storm",
		Description: "Severe storm conditions",
		Severity:    models.SeverityHigh,
		Confidence:  models.ConfidenceHigh,
		Source:      "Heavy rain + strong winds in Atlantic storms",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("rain", "wind")
			if err != nil {
				return false, err
			}
			return v[0] >= 30.0 && v[1] >= 75.0, nil
		},
	},
	{
		ID:          "humid_heat",
		Name:        "Humid Heat",
		Description: "Oppressive heat with high humidity",
		Severity:    models.SeverityHigh,
		Confidence:  models.ConfidenceModerate,
		Source:      "High temp + humidity increases heat stress",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("t_max", "dew")
			if err != nil {
				return false, err
			}
			return v[0] >= 35.0 && v[1] >= 20.0, nil
		},
	},
	{
		ID:          "extremely_poor_visibility",
		Name:        "Extremely Poor Visibility",
		Description: "Severe visibility restriction - safety hazard",
		Severity:    models.SeverityHigh,
		Confidence:  models.ConfidenceHigh,
		Source:      "Visibility < 200m: severe safety impact",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("vis")
			if err != nil {
				return false, err
			}
			return v[0] < 0.2, nil
		},
	},
	{
		ID:          "fog_conditions",
		Name:        "Fog Conditions",
		Description: "Fog likely - reduced visibility",
		Severity:    models.SeverityLow,
		Confidence:  models.ConfidenceModerate,
		Source:      "Low visibility + small dew point spread = fog",
		Predicate: func(d Record) (bool, error) {
			v, err := d.take("vis", "t_mean", "dew")
			if err != nil {
				return false, err
			}
			return v[0] <= 1.0 && (v[1]-v[2]) <= 2.5, nil
		},
	},
}

// Rules returns the rule base in declaration order.
func Rules() []Rule {
	return rules
}
