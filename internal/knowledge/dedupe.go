package knowledge

import (
	"sort"

	"github.com/atlasmet/extremecast/internal/models"
)

// compoundIDs is the fixed set of overlapping compound events. Dedup
// applies only inside this set; overlapping non-compound rules all
// stand, even when they fire for the same physical condition.
var compoundIDs = map[string]bool{
	"extreme_storm": true,
	"severe_storm":  true,
	"fire_weather":  true,
	"humid_heat":    true,
}

// Deduplicate groups events by their date field (single dates and range
// labels never collide) and reduces each group's compound events to the
// single highest-severity member. The sort is stable, so severity ties
// keep rule-declaration order. Non-compound events pass through
// unmodified; no event is ever mutated.
func Deduplicate(events []models.Event) []models.Event {
	var dates []string
	byDate := make(map[string][]models.Event)
	for _, e := range events {
		if _, ok := byDate[e.Date]; !ok {
			dates = append(dates, e.Date)
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	var out []models.Event
	for _, date := range dates {
		group := byDate[date]

		var compound, other []models.Event
		for _, e := range group {
			if compoundIDs[e.EventID] {
				compound = append(compound, e)
			} else {
				other = append(other, e)
			}
		}

		if len(compound) > 0 {
			sort.SliceStable(compound, func(i, j int) bool {
				return compound[i].Severity.Weight() > compound[j].Severity.Weight()
			})
			out = append(out, compound[0])
		}
		out = append(out, other...)
	}
	return out
}
