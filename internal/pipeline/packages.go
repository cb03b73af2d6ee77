package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wayfarer/internal/config"
	"wayfarer/internal/guard"
	"wayfarer/internal/modules/packages"
	"wayfarer/internal/providers"
)

const fallbackCityCode = "CMB"

// PackageRequest is a free-text trip request.
type PackageRequest struct {
	Text string `json:"text" binding:"required"`
}

// PackageResult is the packaged flight+hotel answer.
type PackageResult struct {
	Query        packages.TripQuery   `json:"query"`
	FlightSource string               `json:"flight_source"` // "duffel" or "mock"
	HotelSource  string               `json:"hotel_source"`  // "amadeus", "booking", or "mock"
	Combos       packages.FinalCombos `json:"combos"`
	Notes        []string             `json:"notes,omitempty"`
}

// FlightSearcher finds one-way offers, cheapest first.
type FlightSearcher interface {
	Configured() bool
	SearchOneWayTopN(ctx context.Context, origin, destination, date string, adults, n int) ([]providers.DuffelOffer, error)
}

// CityCodeResolver resolves free text to an IATA city code and searches
// hotel offers for it.
type CityCodeResolver interface {
	Configured() bool
	CitySearch(ctx context.Context, keyword string) (string, error)
	HotelOffers(ctx context.Context, cityCode, checkin, checkout string, adults int) ([]packages.HotelOption, error)
}

// HotelFallback is the secondary hotel source.
type HotelFallback interface {
	Configured() bool
	FindCityDestID(ctx context.Context, name string) (string, error)
	HotelSearch(ctx context.Context, destID, checkin, checkout string, adults int) ([]packages.HotelOption, error)
}

// Packager turns a free-text trip request into ranked flight+hotel
// combos. Every provider tier degrades independently; with no credentials
// at all the result is built from mock options.
type Packager struct {
	flights FlightSearcher
	amadeus CityCodeResolver
	booking HotelFallback
	now     func() time.Time
}

func NewPackager(cfg config.ProvidersConfig) *Packager {
	return &Packager{
		flights: providers.NewDuffel(cfg),
		amadeus: providers.NewAmadeus(cfg),
		booking: providers.NewBooking(cfg),
		now:     time.Now,
	}
}

// Run parses the request, searches providers with mock fallbacks, and
// packages the three best pairings.
func (p *Packager) Run(ctx context.Context, req PackageRequest) (*PackageResult, error) {
	if err := guard.CheckPolicy(req.Text); err != nil {
		return nil, err
	}

	q := packages.ParseTripFreeText(req.Text, p.now())
	cityName := packages.ResolveDestinationCity(q.Destination)

	var notes []string
	note := func(s string) { notes = append(notes, s) }

	originCode := p.resolveOrigin(ctx, q.OriginText, note)
	destCode := p.resolveCityCode(ctx, cityName, note)

	flights, flightSource := p.searchFlights(ctx, q, originCode, destCode, note)
	hotels, hotelSource := p.searchHotels(ctx, q, cityName, destCode, note)

	combos := packages.MakeCombos(cityName, packages.DateWindow(q), flights, hotels)

	zap.L().Info("trip packaged",
		zap.String("destination", cityName),
		zap.String("flight_source", flightSource),
		zap.String("hotel_source", hotelSource),
		zap.Int("combos", len(combos.Combos)),
	)

	return &PackageResult{
		Query:        q,
		FlightSource: flightSource,
		HotelSource:  hotelSource,
		Combos:       combos,
		Notes:        notes,
	}, nil
}

func (p *Packager) resolveOrigin(ctx context.Context, originText string, note func(string)) string {
	if code := packages.OriginCityCode(originText); code != "" {
		return code
	}
	if originText != "" && p.amadeus.Configured() {
		if code, err := p.amadeus.CitySearch(ctx, originText); err == nil {
			return code
		} else {
			note("origin lookup failed: " + err.Error())
		}
	}
	return fallbackCityCode
}

func (p *Packager) resolveCityCode(ctx context.Context, cityName string, note func(string)) string {
	if p.amadeus.Configured() {
		if code, err := p.amadeus.CitySearch(ctx, cityName); err == nil {
			return code
		} else {
			note("destination lookup failed: " + err.Error())
		}
	}
	if code := packages.OriginCityCode(cityName); code != "" {
		return code
	}
	return fallbackCityCode
}

func (p *Packager) searchFlights(ctx context.Context, q packages.TripQuery, originCode, destCode string, note func(string)) ([]packages.FlightOption, string) {
	var outOffers, retOffers []providers.DuffelOffer

	if p.flights.Configured() && q.StartDate != "" {
		var err error
		outOffers, err = p.flights.SearchOneWayTopN(ctx, originCode, destCode, q.StartDate, q.Adults, 3)
		if err != nil {
			note("outbound flight search failed: " + err.Error())
		}
		if q.EndDate != "" {
			retOffers, err = p.flights.SearchOneWayTopN(ctx, destCode, originCode, q.EndDate, q.Adults, 3)
			if err != nil {
				note("return flight search failed: " + err.Error())
			}
		}
	}

	if len(outOffers) == 0 && len(retOffers) == 0 {
		return providers.MockFlights(originCode, destCode), "mock"
	}

	n := len(outOffers)
	if len(retOffers) > n {
		n = len(retOffers)
	}
	if n > 3 {
		n = 3
	}
	options := make([]packages.FlightOption, 0, n)
	for i := 0; i < n; i++ {
		var out, ret *providers.DuffelOffer
		if i < len(outOffers) {
			out = &outOffers[i]
		}
		if i < len(retOffers) {
			ret = &retOffers[i]
		}
		options = append(options, providers.NormalizeRoundTripPair(originCode, destCode, out, ret))
	}
	return options, "duffel"
}

func (p *Packager) searchHotels(ctx context.Context, q packages.TripQuery, cityName, destCode string, note func(string)) ([]packages.HotelOption, string) {
	if p.amadeus.Configured() {
		hotels, err := p.amadeus.HotelOffers(ctx, destCode, q.StartDate, q.EndDate, q.Adults)
		if err != nil {
			note("amadeus hotel search failed: " + err.Error())
		} else if len(hotels) > 0 {
			return hotels, "amadeus"
		}
	}

	if p.booking.Configured() && q.StartDate != "" && q.EndDate != "" {
		destID, err := p.booking.FindCityDestID(ctx, cityName)
		if err != nil {
			note("booking destination lookup failed: " + err.Error())
		} else {
			hotels, err := p.booking.HotelSearch(ctx, destID, q.StartDate, q.EndDate, q.Adults)
			if err != nil {
				note("booking hotel search failed: " + err.Error())
			} else if len(hotels) > 0 {
				return hotels, "booking"
			}
		}
	}

	return providers.MockHotels(), "mock"
}
