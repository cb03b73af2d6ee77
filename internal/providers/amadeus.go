// README: Amadeus self-service API client: OAuth token cache, city/airport
// code resolution, and hotel offers.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"wayfarer/internal/config"
	"wayfarer/internal/modules/packages"
)

// ErrNotConfigured is returned when a provider is missing credentials.
var ErrNotConfigured = errors.New("providers: not configured")

// Amadeus is a client for the Amadeus test (sandbox) API.
type Amadeus struct {
	cfg  config.ProvidersConfig
	http *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewAmadeus(cfg config.ProvidersConfig) *Amadeus {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &Amadeus{cfg: cfg, http: &http.Client{Timeout: timeout}}
}

func (a *Amadeus) Configured() bool {
	return a.cfg.AmadeusClientID != "" && a.cfg.AmadeusClientSecret != ""
}

// accessToken returns a cached OAuth2 token, refreshing it a minute before
// expiry.
func (a *Amadeus) accessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.tokenExp.Add(-time.Minute)) {
		return a.token, nil
	}
	if !a.Configured() {
		return "", ErrNotConfigured
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.cfg.AmadeusClientID},
		"client_secret": {a.cfg.AmadeusClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.cfg.AmadeusBaseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("providers: amadeus oauth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("providers: amadeus oauth: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("providers: amadeus oauth failed: HTTP %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("providers: amadeus oauth decode: %w", err)
	}
	if body.AccessToken == "" {
		return "", errors.New("providers: amadeus oauth returned no access token")
	}

	a.token = body.AccessToken
	a.tokenExp = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return a.token, nil
}

func (a *Amadeus) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	token, err := a.accessToken(ctx)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.cfg.AmadeusBaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("providers: amadeus request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("providers: amadeus %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("providers: amadeus %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type amadeusLocation struct {
	Type     string `json:"type"`
	SubType  string `json:"subType"`
	IATACode string `json:"iataCode"`
	Name     string `json:"name"`
	Address  struct {
		CityName    string `json:"cityName"`
		CountryName string `json:"countryName"`
	} `json:"address"`
}

// CitySearch resolves free text to an uppercase IATA city or airport code.
// Exact code matches win, then cities over airports, then the first hit.
func (a *Amadeus) CitySearch(ctx context.Context, keyword string) (string, error) {
	kw := strings.TrimSpace(keyword)
	if kw == "" {
		return "", errors.New("providers: empty keyword")
	}

	var body struct {
		Data []amadeusLocation `json:"data"`
	}
	params := url.Values{
		"subType":     {"CITY,AIRPORT"},
		"keyword":     {kw},
		"page[limit]": {"20"},
	}
	if err := a.getJSON(ctx, "/v1/reference-data/locations", params, &body); err != nil {
		return "", err
	}
	if len(body.Data) == 0 {
		return "", fmt.Errorf("providers: no location match for %q", kw)
	}

	up := strings.ToUpper(kw)
	for _, item := range body.Data {
		if strings.ToUpper(item.IATACode) == up {
			return up, nil
		}
	}
	for _, item := range body.Data {
		if item.Type == "location" && item.SubType == "CITY" && item.IATACode != "" {
			return strings.ToUpper(item.IATACode), nil
		}
	}
	if code := body.Data[0].IATACode; code != "" {
		return strings.ToUpper(code), nil
	}
	return "", fmt.Errorf("providers: no usable code for %q", kw)
}

// hotelsByCity lists hotel IDs for a city code, deduped, capped at limit.
func (a *Amadeus) hotelsByCity(ctx context.Context, cityCode string, limit int) ([]string, error) {
	var body struct {
		Data []struct {
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	params := url.Values{
		"cityCode":    {strings.ToUpper(cityCode)},
		"page[limit]": {strconv.Itoa(limit)},
	}
	if err := a.getJSON(ctx, "/v1/reference-data/locations/hotels/by-city", params, &body); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(body.Data))
	ids := make([]string, 0, len(body.Data))
	for _, h := range body.Data {
		if h.HotelID == "" {
			continue
		}
		if _, ok := seen[h.HotelID]; ok {
			continue
		}
		seen[h.HotelID] = struct{}{}
		ids = append(ids, h.HotelID)
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

type amadeusHotelOffer struct {
	Hotel struct {
		Name     string `json:"name"`
		Rating   string `json:"rating"`
		IATACode string `json:"iataCode"`
		Address  struct {
			CityName string `json:"cityName"`
		} `json:"address"`
	} `json:"hotel"`
	Offers []struct {
		ID    string `json:"id"`
		Price struct {
			Total    string `json:"total"`
			Base     string `json:"base"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"offers"`
}

// HotelOffers finds hotels in a city and returns the cheapest offer per
// hotel, cheapest hotels first.
func (a *Amadeus) HotelOffers(ctx context.Context, cityCode, checkin, checkout string, adults int) ([]packages.HotelOption, error) {
	ids, err := a.hotelsByCity(ctx, cityCode, 20)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if adults < 1 {
		adults = 1
	}
	params := url.Values{
		"hotelIds": {strings.Join(ids, ",")},
		"adults":   {strconv.Itoa(adults)},
		"currency": {"EUR"},
	}
	if checkin != "" {
		params.Set("checkInDate", checkin)
	}
	if checkout != "" {
		params.Set("checkOutDate", checkout)
	}

	var body struct {
		Data []amadeusHotelOffer `json:"data"`
	}
	if err := a.getJSON(ctx, "/v3/shopping/hotel-offers", params, &body); err != nil {
		return nil, err
	}

	options := make([]packages.HotelOption, 0, len(body.Data))
	for _, entry := range body.Data {
		cheapestIdx := -1
		cheapestAmt := 0.0
		for i, off := range entry.Offers {
			amt, ok := parsePrice(off.Price.Total, off.Price.Base)
			if !ok {
				continue
			}
			if cheapestIdx < 0 || amt < cheapestAmt {
				cheapestIdx, cheapestAmt = i, amt
			}
		}
		if cheapestIdx < 0 {
			continue
		}
		off := entry.Offers[cheapestIdx]

		name := entry.Hotel.Name
		if name == "" {
			name = "Hotel"
		}
		var stars *int
		if s, err := strconv.Atoi(entry.Hotel.Rating); err == nil {
			stars = &s
		}
		neighborhood := entry.Hotel.IATACode
		if neighborhood == "" {
			neighborhood = entry.Hotel.Address.CityName
		}
		currency := strings.ToUpper(off.Price.Currency)
		if currency == "" {
			currency = "EUR"
		}
		deepLink := ""
		if off.ID != "" {
			deepLink = a.cfg.AmadeusBaseURL + "/v3/shopping/hotel-offers/" + off.ID
		}

		options = append(options, packages.HotelOption{
			Name:          name,
			Stars:         stars,
			Neighborhood:  neighborhood,
			PriceTotal:    cheapestAmt,
			PriceCurrency: currency,
			DeepLink:      deepLink,
		})
	}

	sort.SliceStable(options, func(i, j int) bool { return options[i].PriceTotal < options[j].PriceTotal })
	zap.L().Debug("amadeus hotel offers", zap.String("city", cityCode), zap.Int("count", len(options)))
	return options, nil
}

// parsePrice reads the first of total/base that parses as a number.
func parsePrice(total, base string) (float64, bool) {
	for _, s := range []string{total, base} {
		if s == "" {
			continue
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
