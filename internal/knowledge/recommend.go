package knowledge

import (
	"sort"
	"strings"

	"github.com/atlasmet/extremecast/internal/models"
)

// defaultRecommendation is the sole advisory for an empty event list.
const defaultRecommendation = "No extreme weather events detected. Normal precautions apply."

const (
	adviceUrgent     = "⚠️ URGENT: Extreme weather conditions detected. Follow all official warnings and stay informed."
	adviceHeat       = "🌡️ HEAT: Stay hydrated, avoid outdoor activities 12pm-5pm, check on elderly/vulnerable, never leave children/pets in vehicles."
	adviceCold       = "❄️ COLD: Protect water pipes, ensure adequate heating, dress in layers, check on elderly neighbors, protect livestock."
	adviceFlooding   = "🌧️ FLOODING: Avoid wadis and low-lying areas, never drive through flooded roads, secure property, monitor weather updates."
	adviceWind       = "💨 WIND: Secure loose objects, avoid trees and power lines, stay indoors during severe winds, delay travel if possible."
	adviceFire       = "🔥 FIRE DANGER: Extreme fire risk. No outdoor burning, report smoke immediately, prepare evacuation routes."
	adviceVisibility = "🌫️ VISIBILITY: Reduce driving speed, use fog lights, increase following distance, avoid unnecessary travel."
	adviceDrought    = "💧 DROUGHT: Conserve water, monitor crop irrigation, follow local water restrictions."
)

// Recommend matches event-id substrings against the fixed advisory
// catalog and returns the deduplicated set in lexicographic order.
func Recommend(events []models.Event) []string {
	if len(events) == 0 {
		return []string{defaultRecommendation}
	}

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.EventID
	}

	picked := make(map[string]bool)

	for _, e := range events {
		if e.Severity == models.SeverityExtreme {
			picked[adviceUrgent] = true
			break
		}
	}
	if anyID(ids, "heat", "tropical_night") {
		picked[adviceHeat] = true
	}
	if anyID(ids, "cold", "freeze") {
		picked[adviceCold] = true
	}
	if anyID(ids, "rain", "flood", "storm") {
		picked[adviceFlooding] = true
	}
	if anyID(ids, "wind", "storm") {
		picked[adviceWind] = true
	}
	if anyID(ids, "fire") {
		picked[adviceFire] = true
	}
	if anyID(ids, "visibility", "fog") {
		picked[adviceVisibility] = true
	}
	if anyID(ids, "dry") {
		picked[adviceDrought] = true
	}

	out := make([]string, 0, len(picked))
	for advice := range picked {
		out = append(out, advice)
	}
	sort.Strings(out)
	return out
}

func anyID(ids []string, substrs ...string) bool {
	for _, id := range ids {
		for _, sub := range substrs {
			if strings.Contains(id, sub) {
				return true
			}
		}
	}
	return false
}
