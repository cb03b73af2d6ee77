package itinerary

import (
	"strconv"
	"strings"
)

// NormalizeStops coerces the loosely-typed chosen_stops payload into canonical
// Stop records. Every field is defaulted independently and nothing raises:
// a malformed field degrades to its default, never to an error. Duplicate
// names (case-insensitive) are dropped, first occurrence wins, insertion
// order preserved.
func NormalizeStops(raw []any, defaultDwell int) []Stop {
	stops := make([]Stop, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		s := Stop{
			Name:           stringOr(m["name"], defaultStopName),
			Tags:           stringList(m["tags"]),
			Cost:           tierOr(m["cost"], CostUnspecified),
			TypicalMinutes: intOr(m["typical_minutes"], defaultDwell),
			Mobility:       stringOr(m["mobility"], "easy"),
			Reason:         stringOr(m["reason"], ""),
			CrowdLevel:     tierOr(m["crowd_level"], ""),
			PhotoTip:       stringOr(m["photo_tip"], ""),
		}
		s.Lat = floatPtr(m["lat"])
		s.Lon = floatPtr(aliased(m, "lon", "lng"))
		s.BestTime = stringOr(aliased(m, "best_time", "season"), "")

		key := strings.ToLower(s.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		stops = append(stops, s)
	}
	return stops
}

// NormalizeAttractions is the analogous normalizer for the ranker variant.
func NormalizeAttractions(raw []any) []Attraction {
	out := make([]Attraction, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		a := Attraction{
			Name:       stringOr(m["name"], defaultStopName),
			Category:   tierOr(m["category"], ""),
			Tags:       stringList(m["tags"]),
			Rating:     floatPtr(m["rating"]),
			Cost:       tierOr(m["cost"], CostUnspecified),
			CrowdLevel: tierOr(m["crowd_level"], ""),
			PhotoTip:   stringOr(aliased(m, "photo_tip", "photo_spots"), ""),
			Reason:     stringOr(m["reason"], ""),
		}

		key := strings.ToLower(a.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// aliased resolves multi-key fields once, at this boundary. Primary wins.
func aliased(m map[string]any, primary, alias string) any {
	if v, ok := m[primary]; ok && v != nil {
		return v
	}
	return m[alias]
}

func stringOr(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// tierOr lower-cases enumerated fields, leaving unrecognized values as
// provided rather than silently substituting.
func tierOr(v any, def string) string {
	s := stringOr(v, def)
	return strings.ToLower(s)
}

// stringList accepts either a JSON list or a comma-separated string.
func stringList(v any) []string {
	switch vv := v.(type) {
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s := stringOr(item, ""); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return vv
	case string:
		parts := strings.Split(vv, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func floatPtr(v any) *float64 {
	switch vv := v.(type) {
	case float64:
		return &vv
	case int:
		f := float64(vv)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(vv), 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

func intOr(v any, def int) int {
	switch vv := v.(type) {
	case float64:
		return int(vv)
	case int:
		return vv
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(vv)); err == nil {
			return n
		}
		return def
	default:
		return def
	}
}
