package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"wayfarer/internal/config"
	"wayfarer/internal/modules/packages"
)

const (
	bookingBaseURL = "https://booking-com.p.rapidapi.com/v1"
	bookingHost    = "booking-com.p.rapidapi.com"
)

// Booking is a client for the Booking.com RapidAPI gateway, used as a
// hotel fallback when Amadeus returns nothing.
type Booking struct {
	cfg  config.ProvidersConfig
	http *http.Client
	base string
}

func NewBooking(cfg config.ProvidersConfig) *Booking {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Booking{cfg: cfg, http: &http.Client{Timeout: timeout}, base: bookingBaseURL}
}

func (b *Booking) Configured() bool { return b.cfg.RapidAPIKey != "" }

func (b *Booking) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if !b.Configured() {
		return ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.base+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("providers: booking request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", b.cfg.RapidAPIKey)
	req.Header.Set("X-RapidAPI-Host", bookingHost)

	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("providers: booking %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("providers: booking %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FindCityDestID resolves a city name to Booking's internal destination ID,
// preferring city-typed results.
func (b *Booking) FindCityDestID(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("providers: empty city name")
	}

	var results []struct {
		DestID   json.Number `json:"dest_id"`
		DestType string      `json:"dest_type"`
	}
	params := url.Values{"name": {name}, "locale": {"en-gb"}}
	if err := b.getJSON(ctx, "/hotels/locations", params, &results); err != nil {
		return "", err
	}
	for _, item := range results {
		if strings.EqualFold(item.DestType, "city") && item.DestID.String() != "" {
			return item.DestID.String(), nil
		}
	}
	if len(results) > 0 && results[0].DestID.String() != "" {
		return results[0].DestID.String(), nil
	}
	return "", fmt.Errorf("providers: no booking destination for %q", name)
}

type bookingHotel struct {
	HotelName      string      `json:"hotel_name"`
	HotelNameTrans string      `json:"hotel_name_trans"`
	Class          json.Number `json:"class"`
	District       string      `json:"district"`
	CityTrans      string      `json:"city_trans"`
	City           string      `json:"city"`
	CurrencyCode   string      `json:"currencycode"`
	MinTotalPrice  json.Number `json:"min_total_price"`
	PriceBreakdown struct {
		AllInclusivePrice json.Number `json:"all_inclusive_price"`
	} `json:"price_breakdown"`
	URL string `json:"url"`
}

// HotelSearch searches hotels in a destination and returns up to ten
// normalized options, cheapest first.
func (b *Booking) HotelSearch(ctx context.Context, destID, checkin, checkout string, adults int) ([]packages.HotelOption, error) {
	if adults < 1 {
		adults = 1
	}
	params := url.Values{
		"checkin_date":       {checkin},
		"checkout_date":      {checkout},
		"dest_id":            {destID},
		"dest_type":          {"city"},
		"adults_number":      {strconv.Itoa(adults)},
		"order_by":           {"price"},
		"locale":             {"en-gb"},
		"units":              {"metric"},
		"filter_by_currency": {"USD"},
		"page_number":        {"0"},
	}

	var body struct {
		Result []bookingHotel `json:"result"`
	}
	if err := b.getJSON(ctx, "/hotels/search", params, &body); err != nil {
		return nil, err
	}

	options := make([]packages.HotelOption, 0, len(body.Result))
	for _, h := range body.Result {
		name := h.HotelName
		if name == "" {
			name = h.HotelNameTrans
		}
		if name == "" {
			name = "Hotel"
		}

		var stars *int
		if cls, err := h.Class.Float64(); err == nil && cls > 0 {
			s := int(math.Round(cls))
			stars = &s
		}

		neighborhood := h.District
		if neighborhood == "" {
			neighborhood = h.CityTrans
		}
		if neighborhood == "" {
			neighborhood = h.City
		}

		price, err := h.PriceBreakdown.AllInclusivePrice.Float64()
		if err != nil {
			price, err = h.MinTotalPrice.Float64()
			if err != nil {
				continue
			}
		}

		currency := strings.ToUpper(h.CurrencyCode)
		if currency == "" {
			currency = "USD"
		}

		options = append(options, packages.HotelOption{
			Name:          name,
			Stars:         stars,
			Neighborhood:  neighborhood,
			PriceTotal:    price,
			PriceCurrency: currency,
			DeepLink:      h.URL,
		})
	}

	sort.SliceStable(options, func(i, j int) bool { return options[i].PriceTotal < options[j].PriceTotal })
	if len(options) > 10 {
		options = options[:10]
	}
	return options, nil
}
