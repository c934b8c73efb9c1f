package models

import "encoding/json"

const (
	// Lookback is the number of trailing daily observations fed to the
	// model as one input window.
	Lookback = 14

	// Horizon is the number of future days forecast per invocation.
	Horizon = 7
)

// TargetCols lists the forecast target variables in the order the model
// emits them. This order is part of the artifact contract.
var TargetCols = []string{
	"mean_temperature",
	"max_temperature",
	"min_temperature",
	"total_precipitation",
	"mean_windSpeed",
	"mean_dewPoint",
	"mean_visibility",
}

// TargetUnits maps each target variable to its physical unit.
var TargetUnits = map[string]string{
	"mean_temperature":    "°C",
	"max_temperature":     "°C",
	"min_temperature":     "°C",
	"total_precipitation": "mm",
	"mean_windSpeed":      "m/s",
	"mean_dewPoint":       "°C",
	"mean_visibility":     "km",
}

type Severity string

const (
	SeverityExtreme  Severity = "EXTREME"
	SeverityHigh     Severity = "HIGH"
	SeverityModerate Severity = "MODERATE"
	SeverityLow      Severity = "LOW"
)

// Weight returns the severity's contribution to the weighted score and
// its rank for dedup tie-breaks. Unknown severities rank below LOW.
func (s Severity) Weight() int {
	switch s {
	case SeverityExtreme:
		return 4
	case SeverityHigh:
		return 3
	case SeverityModerate:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

type Confidence string

const (
	ConfidenceHigh     Confidence = "HIGH"
	ConfidenceModerate Confidence = "MODERATE"
	ConfidenceLow      Confidence = "LOW"
)

// Observation is one historical daily weather record.
type Observation struct {
	Date          string // YYYY-MM-DD
	MeanTemp      float64
	MaxTemp       float64
	MinTemp       float64
	Precipitation float64
	WindSpeed     float64
	DewPoint      float64
	Visibility    float64
}

// Measurement is a forecast value with its physical unit.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ForecastDay is one assembled forecast day. Values is keyed by target
// variable name and serializes flattened into the day object alongside
// date and events.
type ForecastDay struct {
	Date   string
	Values map[string]Measurement
	Events []Event
}

// MarshalJSON flattens Values so each variable appears as a top-level key:
// {"date": ..., "mean_temperature": {"value":..,"unit":..}, ..., "events":[..]}
func (d ForecastDay) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Values)+2)
	out["date"] = d.Date
	for name, m := range d.Values {
		out[name] = m
	}
	events := d.Events
	if events == nil {
		events = []Event{}
	}
	out["events"] = events
	return json.Marshal(out)
}

// Event is one detected extreme-weather signal. Date is either a single
// ISO date or a range label "<start> to <end>" for multi-day patterns.
// Events are read-only once created; dedup drops but never mutates them.
type Event struct {
	Date        string         `json:"date"`
	EventID     string         `json:"event_id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Severity    Severity       `json:"severity"`
	Confidence  Confidence     `json:"confidence"`
	Source      string         `json:"source"`
	Criteria    map[string]any `json:"criteria,omitempty"`
}

// HighRiskDay is a summary entry for an EXTREME or HIGH severity event.
type HighRiskDay struct {
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
}

// TimelineEntry is one chronologically ordered summary timeline item.
type TimelineEntry struct {
	Date     string   `json:"date"`
	EventID  string   `json:"event_id"`
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
}

// AffectedDay ranks a single date by how many events landed on it.
type AffectedDay struct {
	Date       string `json:"date"`
	EventCount int    `json:"event_count"`
}

// DetailedEvent is an event enriched with its category for the summary.
type DetailedEvent struct {
	Date        string         `json:"date"`
	EventID     string         `json:"event_id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Severity    Severity       `json:"severity"`
	Confidence  Confidence     `json:"confidence"`
	Category    string         `json:"category"`
	Source      string         `json:"source"`
	Criteria    map[string]any `json:"criteria,omitempty"`
}

// Statistics is the fixed per-category/per-severity count block.
type Statistics struct {
	ExtremeEvents          int `json:"extreme_events"`
	HighSeverityEvents     int `json:"high_severity_events"`
	ModerateSeverityEvents int `json:"moderate_severity_events"`
	LowSeverityEvents      int `json:"low_severity_events"`
	HeatRelated            int `json:"heat_related"`
	ColdRelated            int `json:"cold_related"`
	PrecipitationRelated   int `json:"precipitation_related"`
	WindRelated            int `json:"wind_related"`
	CompoundEvents         int `json:"compound_events"`
	DroughtRelated         int `json:"drought_related"`
	VisibilityRelated      int `json:"visibility_related"`
}

// EventSummary is the derived aggregate over the deduplicated event list.
// Recomputed on every invocation, never persisted.
type EventSummary struct {
	TotalEvents          int              `json:"total_events"`
	SeverityDistribution map[Severity]int `json:"severity_distribution"`
	SeverityScore        int              `json:"severity_score"`
	EventTypes           map[string]int   `json:"event_types"`
	EventCategories      map[string]int   `json:"event_categories"`
	MaxSeverity          Severity         `json:"max_severity,omitempty"`
	HighRiskDays         []HighRiskDay    `json:"high_risk_days"`
	MostAffectedDays     []AffectedDay    `json:"most_affected_days"`
	EventTimeline        []TimelineEntry  `json:"event_timeline"`
	DetailedEvents       []DetailedEvent  `json:"detailed_events"`
	Statistics           Statistics       `json:"statistics"`
}

// EventsPayload pairs the summary with its safety recommendations.
type EventsPayload struct {
	Summary         EventSummary `json:"summary"`
	Recommendations []string     `json:"recommendations"`
}

// Metadata stamps one forecast run.
type Metadata struct {
	Model       string `json:"model"`
	HorizonDays int    `json:"horizon_days"`
	GeneratedAt string `json:"generated_at"`
}

// Result is the full output of one pipeline invocation.
type Result struct {
	Metadata Metadata      `json:"metadata"`
	Forecast []ForecastDay `json:"forecast"`
	Events   EventsPayload `json:"events"`
}
