// Package crop serves the crop catalogue and planting recommendations.
package crop

import (
	"strings"
	"time"
)

// Zambian agricultural seasons.
const (
	SeasonRainy   = "rainy"    // November to April
	SeasonCoolDry = "cool-dry" // May to August
	SeasonHotDry  = "hot-dry"  // September and October
)

var seasonMonths = map[string][]time.Month{
	SeasonRainy:   {time.November, time.December, time.January, time.February, time.March, time.April},
	SeasonCoolDry: {time.May, time.June, time.July, time.August},
	SeasonHotDry:  {time.September, time.October},
}

// Months resolves a month name ("March", "mar") or a Zambian season name to
// the months it covers. ok is false for anything else.
func Months(season string) (months []time.Month, ok bool) {
	s := strings.ToLower(strings.TrimSpace(season))
	if ms, found := seasonMonths[s]; found {
		return ms, true
	}
	if m, found := parseMonth(s); found {
		return []time.Month{m}, true
	}
	return nil, false
}

// SeasonOf names the Zambian season a month falls in.
func SeasonOf(m time.Month) string {
	for name, ms := range seasonMonths {
		for _, x := range ms {
			if x == m {
				return name
			}
		}
	}
	return ""
}

func parseMonth(s string) (time.Month, bool) {
	if len(s) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || s == name[:3] {
			return m, true
		}
	}
	return 0, false
}

// PlantedIn reports whether any of the crop's planting seasons falls in months.
func PlantedIn(plantingSeasons []string, months []time.Month) bool {
	for _, ps := range plantingSeasons {
		pm, ok := Months(ps)
		if !ok {
			continue
		}
		for _, a := range pm {
			for _, b := range months {
				if a == b {
					return true
				}
			}
		}
	}
	return false
}
