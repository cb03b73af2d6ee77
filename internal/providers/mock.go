package providers

import "wayfarer/internal/modules/packages"

// Mock options keep the packager demoable without any provider keys.

func MockFlights(originCode, destCode string) []packages.FlightOption {
	direct := true
	stops := 0
	outbound, inbound := 250.0, 250.0
	return []packages.FlightOption{{
		Summary:             originCode + "-" + destCode + " (MockAir, direct/direct)",
		PriceTotal:          500.0,
		PriceCurrency:       "USD",
		Airline:             "MockAir",
		OriginIATA:          originCode,
		DestinationIATA:     destCode,
		OutboundPrice:       &outbound,
		ReturnPrice:         &inbound,
		LegsOutbound:        []packages.FlightLeg{{Carrier: "MockAir", Origin: originCode, Destination: destCode, DurationISO: "PT5H"}},
		LegsReturn:          []packages.FlightLeg{{Carrier: "MockAir", Origin: destCode, Destination: originCode, DurationISO: "PT5H"}},
		StopsOutbound:       &stops,
		StopsReturn:         &stops,
		DurationOutboundISO: "PT5H",
		DurationReturnISO:   "PT5H",
		IsDirectOutbound:    &direct,
		IsDirectReturn:      &direct,
	}}
}

func MockHotels() []packages.HotelOption {
	budget, midscale, boutique := 2, 3, 4
	return []packages.HotelOption{
		{Name: "Test Property - Budget", Stars: &budget, Neighborhood: "Central", PriceTotal: 55.0, PriceCurrency: "EUR"},
		{Name: "Test Property - Midscale", Stars: &midscale, Neighborhood: "Central", PriceTotal: 95.0, PriceCurrency: "EUR"},
		{Name: "Test Property - Boutique", Stars: &boutique, Neighborhood: "Central", PriceTotal: 145.0, PriceCurrency: "EUR"},
	}
}
