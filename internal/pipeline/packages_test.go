package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/guard"
	"wayfarer/internal/modules/packages"
	"wayfarer/internal/providers"
)

type fakeFlights struct {
	configured bool
	offers     map[string][]providers.DuffelOffer // keyed by origin+date
	err        error
}

func (f *fakeFlights) Configured() bool { return f.configured }

func (f *fakeFlights) SearchOneWayTopN(_ context.Context, origin, _, date string, _, _ int) ([]providers.DuffelOffer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.offers[origin+date], nil
}

type fakeAmadeus struct {
	configured bool
	codes      map[string]string
	hotels     []packages.HotelOption
	err        error
}

func (f *fakeAmadeus) Configured() bool { return f.configured }

func (f *fakeAmadeus) CitySearch(_ context.Context, keyword string) (string, error) {
	if code, ok := f.codes[keyword]; ok {
		return code, nil
	}
	return "", errors.New("no match")
}

func (f *fakeAmadeus) HotelOffers(context.Context, string, string, string, int) ([]packages.HotelOption, error) {
	return f.hotels, f.err
}

type fakeBooking struct {
	configured bool
	hotels     []packages.HotelOption
}

func (f *fakeBooking) Configured() bool { return f.configured }

func (f *fakeBooking) FindCityDestID(context.Context, string) (string, error) { return "456", nil }

func (f *fakeBooking) HotelSearch(context.Context, string, string, string, int) ([]packages.HotelOption, error) {
	return f.hotels, nil
}

func testPackager(flights FlightSearcher, amadeus CityCodeResolver, booking HotelFallback) *Packager {
	return &Packager{
		flights: flights,
		amadeus: amadeus,
		booking: booking,
		now:     func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestPackagerRunAllMock(t *testing.T) {
	p := testPackager(&fakeFlights{}, &fakeAmadeus{}, &fakeBooking{})

	res, err := p.Run(context.Background(), PackageRequest{Text: "trip to Dubai for 4 nights, 2 adults"})
	require.NoError(t, err)

	assert.Equal(t, "mock", res.FlightSource)
	assert.Equal(t, "mock", res.HotelSource)
	assert.Equal(t, "Dubai", res.Query.Destination)
	assert.Equal(t, 2, res.Query.Adults)

	// One mock flight pairs with the cheapest mock hotel.
	require.Len(t, res.Combos.Combos, 1)
	combo := res.Combos.Combos[0]
	assert.Equal(t, "MockAir", combo.Flight.Airline)
	assert.Equal(t, "Test Property - Budget", combo.Hotel.Name)
	assert.InDelta(t, 500.0+55.0*1.08, combo.EstTotalUSD, 0.01)
}

func TestPackagerRunLiveProviders(t *testing.T) {
	flights := &fakeFlights{
		configured: true,
		offers: map[string][]providers.DuffelOffer{
			"CMB2026-03-08": {{TotalAmount: "420.00", TotalCurrency: "USD"}},
			"DXB2026-03-12": {{TotalAmount: "380.00", TotalCurrency: "USD"}},
		},
	}
	stars := 4
	amadeus := &fakeAmadeus{
		configured: true,
		codes:      map[string]string{"Dubai": "DXB"},
		hotels: []packages.HotelOption{
			{Name: "Marina Stay", Stars: &stars, PriceTotal: 150, PriceCurrency: "USD"},
		},
	}
	p := testPackager(flights, amadeus, &fakeBooking{})

	res, err := p.Run(context.Background(), PackageRequest{Text: "trip to Dubai for 4 nights from Colombo"})
	require.NoError(t, err)

	assert.Equal(t, "duffel", res.FlightSource)
	assert.Equal(t, "amadeus", res.HotelSource)
	require.Len(t, res.Combos.Combos, 1)
	assert.InDelta(t, 800.0, res.Combos.Combos[0].Flight.PriceTotal, 0.001)
	assert.Equal(t, "Marina Stay", res.Combos.Combos[0].Hotel.Name)
}

func TestPackagerRunBookingFallback(t *testing.T) {
	amadeus := &fakeAmadeus{configured: true, codes: map[string]string{"Dubai": "DXB"}}
	booking := &fakeBooking{
		configured: true,
		hotels:     []packages.HotelOption{{Name: "Harbor View", PriceTotal: 120, PriceCurrency: "USD"}},
	}
	p := testPackager(&fakeFlights{}, amadeus, booking)

	res, err := p.Run(context.Background(), PackageRequest{Text: "trip to Dubai for 4 nights"})
	require.NoError(t, err)

	assert.Equal(t, "booking", res.HotelSource)
	require.Len(t, res.Combos.Combos, 1)
	assert.Equal(t, "Harbor View", res.Combos.Combos[0].Hotel.Name)
}

func TestPackagerRunCountryDestination(t *testing.T) {
	p := testPackager(&fakeFlights{}, &fakeAmadeus{}, &fakeBooking{})

	res, err := p.Run(context.Background(), PackageRequest{Text: "visit Japan for 3 nights"})
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", res.Combos.Destination)
}

func TestPackagerRunBlocked(t *testing.T) {
	p := testPackager(&fakeFlights{}, &fakeAmadeus{}, &fakeBooking{})

	_, err := p.Run(context.Background(), PackageRequest{Text: "smuggle weapons to Dubai"})
	assert.ErrorIs(t, err, guard.ErrBlocked)
}

func TestPackagerRunProviderErrorNoted(t *testing.T) {
	flights := &fakeFlights{configured: true, err: errors.New("HTTP 500")}
	p := testPackager(flights, &fakeAmadeus{}, &fakeBooking{})

	res, err := p.Run(context.Background(), PackageRequest{Text: "trip to Dubai for 4 nights"})
	require.NoError(t, err)

	assert.Equal(t, "mock", res.FlightSource)
	require.NotEmpty(t, res.Notes)
	assert.Contains(t, res.Notes[0], "outbound flight search failed")
}
