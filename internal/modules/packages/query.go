package packages

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	adultsRe = regexp.MustCompile(`(?i)(\d+)\s*(adult|adults|people|pax)`)
	nightsRe = regexp.MustCompile(`(?i)(\d+)\s*(night|nights)`)
	daysRe   = regexp.MustCompile(`(?i)(\d+)\s*(day|days)`)
	rangeRe  = regexp.MustCompile(`([A-Za-z0-9/-]+(?:[ ]\d{1,2})?)\s*(?:to|-|–|—)\s*([A-Za-z0-9/-]+(?:[ ]\d{1,2})?)`)
	singleRe = regexp.MustCompile(`(?i)\bon\s+([A-Za-z0-9/-]+(?:[ ]\d{1,2})?)`)
	destRe   = regexp.MustCompile(`(?i)(?:to|go to|visit|plan to|trip to)\s+([A-Za-z\s]+)`)
	tailRe   = regexp.MustCompile(`(?i)\b(in|on|at|for|from)\b.*$`)

	fromToRe     = regexp.MustCompile(`(?i)\b(?:from|leaving from|start in)\s+([a-z\s,]+?)\s+(?:to|->)\s+([a-z\s,]+)\b`)
	implicitToRe = regexp.MustCompile(`(?i)\b([a-z\s,]+?)\s+(?:to|->)\s+([a-z\s,]+)\b`)

	titleCaser = cases.Title(language.English)
)

// Well-known country names mapped to a sensible hub city.
var countryToCity = map[string]string{
	"japan": "Tokyo", "india": "Delhi", "sri lanka": "Colombo", "uae": "Dubai",
	"united arab emirates": "Dubai", "thailand": "Bangkok", "singapore": "Singapore",
	"malaysia": "Kuala Lumpur", "indonesia": "Jakarta", "vietnam": "Ho Chi Minh City",
	"france": "Paris", "italy": "Rome", "spain": "Barcelona", "germany": "Berlin",
	"uk": "London", "united kingdom": "London", "netherlands": "Amsterdam",
	"usa": "New York", "united states": "New York", "canada": "Toronto",
	"mexico": "Mexico City", "brazil": "São Paulo", "australia": "Sydney",
	"new zealand": "Auckland",
}

// Frequent origins mapped straight to IATA city codes so the sandbox APIs
// resolve without a lookup round trip.
var originTextToCityCode = map[string]string{
	"canada": "YTO", "toronto": "YTO", "montreal": "YMQ", "vancouver": "YVR",
	"colombo": "CMB", "sri lanka": "CMB", "new york": "NYC", "london": "LON", "paris": "PAR",
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"Jan 2 2006",
	"January 2 2006",
	"Jan 2",
	"January 2",
	"2 Jan",
	"2 January",
}

// parseFuzzyDate turns a loose date token into an ISO date. Tokens without
// a year get the current year, bumped forward when the result already
// passed.
func parseFuzzyDate(s string, today time.Time) (string, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			if t.Before(today.AddDate(0, 0, -1)) {
				t = t.AddDate(1, 0, 0)
			}
		}
		return t.Format("2006-01-02"), true
	}
	return "", false
}

// ParseTripFreeText extracts destination, dates, nights, and party size
// from a one-line trip request such as "Paris in December for 4 nights" or
// "Go to Dubai Oct 10 to Oct 15, 2 adults".
func ParseTripFreeText(text string, today time.Time) TripQuery {
	t := strings.TrimSpace(text)
	q := TripQuery{RawText: t, Adults: 1}

	if m := adultsRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			q.Adults = n
		}
	}

	var nights int
	if m := nightsRe.FindStringSubmatch(t); m != nil {
		nights, _ = strconv.Atoi(m[1])
	} else if m := daysRe.FindStringSubmatch(t); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil {
			nights = d - 1
			if nights < 1 {
				nights = 1
			}
		}
	}
	if nights > 0 {
		q.Nights = &nights
	}

	// "X to Y" is also how people phrase routes, so take the first range
	// whose left side actually parses as a date.
	for _, m := range rangeRe.FindAllStringSubmatch(t, -1) {
		start, ok := parseFuzzyDate(m[1], today)
		if !ok {
			continue
		}
		q.StartDate = start
		if end, ok := parseFuzzyDate(m[2], today); ok {
			q.EndDate = end
		}
		break
	}
	if q.StartDate == "" {
		if m := singleRe.FindStringSubmatch(t); m != nil {
			if start, ok := parseFuzzyDate(m[1], today); ok {
				q.StartDate = start
			}
		}
	}

	if q.StartDate != "" && nights > 0 && q.EndDate == "" {
		if start, err := time.Parse("2006-01-02", q.StartDate); err == nil {
			q.EndDate = start.AddDate(0, 0, nights).Format("2006-01-02")
		}
	}

	// No usable date but a duration: assume departure a week out.
	if nights > 0 && q.StartDate == "" {
		base := today.AddDate(0, 0, 7)
		q.StartDate = base.Format("2006-01-02")
		q.EndDate = base.AddDate(0, 0, nights).Format("2006-01-02")
	}

	dest := t
	if m := destRe.FindStringSubmatch(t); m != nil {
		dest = strings.TrimSpace(m[1])
	}
	dest = strings.SplitN(dest, " for ", 2)[0]
	dest = strings.SplitN(dest, " on ", 2)[0]
	dest = strings.TrimSpace(tailRe.ReplaceAllString(dest, ""))
	if dest == "" {
		dest = "Colombo"
	}
	q.Destination = titleCaser.String(dest)

	if origin, _ := ParseFromTo(t); origin != "" {
		q.OriginText = origin
	}

	return q
}

// ParseFromTo pulls "from X to Y" style origin/destination phrases out of
// free text. Either value may be empty.
func ParseFromTo(text string) (origin, destination string) {
	t := strings.ToLower(strings.TrimSpace(text))
	if m := fromToRe.FindStringSubmatch(t); m != nil {
		return strings.Trim(m[1], " ,"), strings.Trim(m[2], " ,")
	}
	if m := implicitToRe.FindStringSubmatch(t); m != nil {
		return strings.Trim(m[1], " ,"), strings.Trim(m[2], " ,")
	}
	return "", ""
}

// ResolveDestinationCity maps a country name to its hub city and passes
// city names through.
func ResolveDestinationCity(place string) string {
	t := strings.TrimSpace(place)
	if t == "" {
		return "Colombo"
	}
	if city, ok := countryToCity[strings.ToLower(t)]; ok {
		return city
	}
	return t
}

// OriginCityCode returns a hard-coded IATA city code for frequent origins,
// or "" when the caller should fall back to a live city search.
func OriginCityCode(origin string) string {
	return originTextToCityCode[strings.ToLower(strings.TrimSpace(origin))]
}

// DateWindow formats the query's travel dates for display.
func DateWindow(q TripQuery) string {
	switch {
	case q.StartDate != "" && q.EndDate != "":
		return q.StartDate + " to " + q.EndDate
	case q.StartDate != "":
		return "from " + q.StartDate
	default:
		return "flexible dates"
	}
}
