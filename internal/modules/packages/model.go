package packages

// TripQuery is a structured trip request parsed from free text.
type TripQuery struct {
	RawText     string `json:"raw_text"`
	Destination string `json:"destination"`
	Country     string `json:"country,omitempty"`
	StartDate   string `json:"start_date,omitempty"` // ISO YYYY-MM-DD
	EndDate     string `json:"end_date,omitempty"`
	Nights      *int   `json:"nights,omitempty"`
	Adults      int    `json:"adults"`
	OriginText  string `json:"origin_text,omitempty"`
}

// FlightLeg is one segment of a flight.
type FlightLeg struct {
	Carrier       string `json:"carrier,omitempty"`
	FlightNumber  string `json:"flight_number,omitempty"`
	Origin        string `json:"origin,omitempty"`
	Destination   string `json:"destination,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
	DurationISO   string `json:"duration_iso,omitempty"`
	CabinClass    string `json:"cabin_class,omitempty"`
}

// FlightOption is a normalized round-trip flight quote from any provider.
type FlightOption struct {
	Summary       string `json:"summary"`
	PriceTotal    float64 `json:"price_total"`
	PriceCurrency string `json:"price_currency"`
	Airline       string `json:"airline,omitempty"`
	DeepLink      string `json:"deep_link,omitempty"`

	OriginIATA      string `json:"origin_iata,omitempty"`
	DestinationIATA string `json:"destination_iata,omitempty"`

	OutboundPrice      *float64    `json:"outbound_price,omitempty"`
	ReturnPrice        *float64    `json:"return_price,omitempty"`
	LegsOutbound       []FlightLeg `json:"legs_outbound,omitempty"`
	LegsReturn         []FlightLeg `json:"legs_return,omitempty"`
	StopsOutbound      *int        `json:"stops_outbound,omitempty"`
	StopsReturn        *int        `json:"stops_return,omitempty"`
	DurationOutboundISO string     `json:"duration_outbound_iso,omitempty"`
	DurationReturnISO   string     `json:"duration_return_iso,omitempty"`
	IsDirectOutbound   *bool       `json:"is_direct_outbound,omitempty"`
	IsDirectReturn     *bool       `json:"is_direct_return,omitempty"`
}

// HotelOption is a normalized hotel quote.
type HotelOption struct {
	Name          string  `json:"name"`
	Stars         *int    `json:"stars,omitempty"`
	Neighborhood  string  `json:"neighborhood,omitempty"`
	PriceTotal    float64 `json:"price_total"`
	PriceCurrency string  `json:"price_currency"`
	DeepLink      string  `json:"deep_link,omitempty"`
}

// FlightSearchResult carries flight options plus where they came from.
type FlightSearchResult struct {
	Source  string         `json:"source"` // "duffel", "amadeus", or "mock"
	Options []FlightOption `json:"options"`
	Debug   string         `json:"debug,omitempty"`
}

// HotelSearchResult carries hotel options plus where they came from.
type HotelSearchResult struct {
	Source  string        `json:"source"` // "amadeus", "booking", or "mock"
	Options []HotelOption `json:"options"`
	Debug   string        `json:"debug,omitempty"`
}

// ComboReason explains why a flight and hotel were paired.
type ComboReason struct {
	WhyTogether string   `json:"why_together"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
}

// ComboOption is one flight+hotel pairing with a USD display total.
type ComboOption struct {
	Title       string       `json:"title"`
	Flight      FlightOption `json:"flight"`
	Hotel       HotelOption  `json:"hotel"`
	EstTotalUSD float64      `json:"est_total_usd"`
	Currency    string       `json:"currency"` // always "USD"
	Reasons     ComboReason  `json:"reasons"`
}

// FinalCombos is the packaged answer for a trip query.
type FinalCombos struct {
	Destination string        `json:"destination"`
	DateWindow  string        `json:"date_window"`
	Combos      []ComboOption `json:"combos"`
}
