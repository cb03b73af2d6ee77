package safety

import (
	"context"
	"strings"

	"wayfarer/internal/lookup"
)

var dressCodeKeywords = []string{"temple", "mosque", "stupa", "shrine"}

var permitKeywords = []string{"drone", "heritage", "park"}

const (
	maxReasons      = 6
	maxPolicyNotes  = 3
	maxSafetyTips   = 3
	maxAlternatives = 3
)

// BuildReport merges per-item check results with live weather and country
// advisories into the final traveler-facing report.
func BuildReport(ctx context.Context, src lookup.Sources, payload PlannerPayload, checks []CheckResult) Report {
	maxRisk := 0
	for _, c := range checks {
		if c.Risk > maxRisk {
			maxRisk = c.Risk
		}
	}

	var reasons []string
	for _, c := range checks {
		if len(c.Signals) > 0 {
			reasons = append(reasons, c.Item.Name+": "+strings.Join(c.Signals, "; "))
		}
	}
	if len(reasons) == 0 {
		reasons = []string{"All items passed live safety checks."}
	}

	names := make([]string, 0, len(payload.Items))
	for _, item := range payload.Items {
		names = append(names, strings.ToLower(item.Name))
	}
	nameText := strings.Join(names, " ")

	var policyNotes []string
	if containsAny(nameText, dressCodeKeywords) {
		policyNotes = append(policyNotes, "Religious sites: dress code applies (cover shoulders/knees).")
	}
	if containsAny(nameText, permitKeywords) {
		policyNotes = append(policyNotes, "Permits may be required for drones & heritage zones.")
	}
	if len(policyNotes) == 0 {
		policyNotes = append(policyNotes, "Verify vendor identity; prefer card payments with receipts.")
	}

	var alternatives []string
	for _, c := range checks {
		alternatives = append(alternatives, c.Alternatives...)
	}
	if len(alternatives) == 0 {
		alternatives = []string{"Use official websites or buy at venue counters."}
	}

	return Report{
		Badge:        BadgeFor(maxRisk),
		Reasons:      dedupeCap(reasons, maxReasons),
		PolicyNotes:  dedupeCap(policyNotes, maxPolicyNotes),
		SafetyTips:   advisoryTips(ctx, src, payload.City, payload.Country),
		Alternatives: dedupeCap(alternatives, maxAlternatives),
		Checks:       checks,
	}
}

// advisoryTips builds short actionable tips from the weather and country
// advisory sources. The weather query uses "City,CC" when an ISO2 country
// code is known so the lookup resolves the right city.
func advisoryTips(ctx context.Context, src lookup.Sources, city, countryCode string) []string {
	var tips []string

	cityQuery := city
	if city != "" && len(countryCode) == 2 {
		cityQuery = city + "," + strings.ToUpper(countryCode)
	}
	if cityQuery != "" {
		if tip, ok := src.WeatherTip(ctx, cityQuery); ok && tip != "" {
			tips = append(tips, tip)
		}
	}

	if countryCode != "" {
		if score, msg, ok := src.CountryAdvisory(ctx, countryCode); ok {
			if score >= 3.0 {
				tips = append(tips, "General travel caution: prefer official providers and avoid night travel.")
			}
			if msg != "" {
				tip := "Advisory: " + msg
				if len(tip) > 150 {
					tip = tip[:150]
				}
				tips = append(tips, tip)
			}
		}
	}

	if len(tips) == 0 {
		tips = []string{"No major issues reported. Follow normal travel safety precautions (keep valuables secure, use verified providers)."}
	}
	return dedupeCap(tips, maxSafetyTips)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// dedupeCap removes duplicates preserving first occurrence and caps length.
func dedupeCap(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}
