package packages

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Approximate spot rates for display totals only. Unknown currencies pass
// through at face value with a note on the combo.
var fxToUSD = map[string]float64{
	"USD": 1.0,
	"EUR": 1.08,
	"GBP": 1.27,
	"JPY": 0.0067,
	"CAD": 0.73,
	"AUD": 0.67,
	"LKR": 0.0033,
}

// ToUSD converts an amount to US dollars. When the currency has no known
// rate the amount is returned unchanged along with a display note.
func ToUSD(amount float64, currency string) (float64, string) {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == "" {
		c = "USD"
	}
	rate, ok := fxToUSD[c]
	if !ok || rate <= 0 {
		return amount, fmt.Sprintf("No FX rate for %s, treated as USD for display", c)
	}
	return amount * rate, ""
}

// MakeCombos pairs the three cheapest flights with the three cheapest
// hotels by rank and explains each pairing.
func MakeCombos(destination, dateWindow string, flights []FlightOption, hotels []HotelOption) FinalCombos {
	flightsSorted := append([]FlightOption(nil), flights...)
	sort.SliceStable(flightsSorted, func(i, j int) bool {
		return flightsSorted[i].PriceTotal < flightsSorted[j].PriceTotal
	})
	hotelsSorted := append([]HotelOption(nil), hotels...)
	sort.SliceStable(hotelsSorted, func(i, j int) bool {
		return hotelsSorted[i].PriceTotal < hotelsSorted[j].PriceTotal
	})

	n := 3
	if len(flightsSorted) < n {
		n = len(flightsSorted)
	}
	if len(hotelsSorted) < n {
		n = len(hotelsSorted)
	}

	combos := make([]ComboOption, 0, n)
	for i := 0; i < n; i++ {
		f, h := flightsSorted[i], hotelsSorted[i]
		fUSD, fNote := ToUSD(f.PriceTotal, f.PriceCurrency)
		hUSD, hNote := ToUSD(h.PriceTotal, h.PriceCurrency)
		total := math.Round((fUSD+hUSD)*100) / 100

		reasons := reasonForCombo(i, f)
		if fNote != "" {
			reasons.Cons = append(reasons.Cons, fNote)
		}
		if hNote != "" {
			reasons.Cons = append(reasons.Cons, hNote)
		}

		combos = append(combos, ComboOption{
			Title:       fmt.Sprintf("Combo %d: %s + %s", i+1, f.Summary, h.Name),
			Flight:      f,
			Hotel:       h,
			EstTotalUSD: total,
			Currency:    "USD",
			Reasons:     reasons,
		})
	}

	return FinalCombos{Destination: destination, DateWindow: dateWindow, Combos: combos}
}

func reasonForCombo(idx int, f FlightOption) ComboReason {
	directOut := f.IsDirectOutbound != nil && *f.IsDirectOutbound
	directRet := f.IsDirectReturn != nil && *f.IsDirectReturn

	var why string
	switch {
	case directOut && directRet:
		why = "Fast and simple: direct both ways, minimal hassle."
	case directOut || directRet:
		why = "Balanced: one leg is direct, the other has a short connection."
	default:
		why = "Value-focused pick with reasonable connections."
	}

	var pros []string
	switch idx {
	case 0:
		pros = append(pros, "Cheapest overall among the options shown")
	case 1:
		pros = append(pros, "Great value with slightly different timing")
	default:
		pros = append(pros, "Alternative timing that may suit your schedule better")
	}

	airline := f.Airline
	if airline == "" {
		airline = "Mixed"
	}
	pros = append(pros, "Airline: "+airline)

	if f.DurationOutboundISO != "" {
		pros = append(pros, "Outbound duration approx. "+f.DurationOutboundISO)
	}
	if f.DurationReturnISO != "" {
		pros = append(pros, "Return duration approx. "+f.DurationReturnISO)
	}

	return ComboReason{
		WhyTogether: why,
		Pros:        pros,
		Cons:        []string{"Exchange rate is approximate"},
	}
}
