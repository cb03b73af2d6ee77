package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"wayfarer/internal/config"
	"wayfarer/internal/modules/packages"
)

const duffelBaseURL = "https://api.duffel.com/air"

// Duffel is a client for the Duffel flight offers API.
type Duffel struct {
	cfg  config.ProvidersConfig
	http *http.Client
	base string
}

func NewDuffel(cfg config.ProvidersConfig) *Duffel {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &Duffel{cfg: cfg, http: &http.Client{Timeout: timeout}, base: duffelBaseURL}
}

func (d *Duffel) Configured() bool { return d.cfg.DuffelToken != "" }

// DuffelOffer is the subset of a Duffel offer the packager needs.
type DuffelOffer struct {
	TotalAmount   string        `json:"total_amount"`
	TotalCurrency string        `json:"total_currency"`
	Slices        []DuffelSlice `json:"slices"`
}

type DuffelSlice struct {
	Duration string          `json:"duration"`
	Segments []DuffelSegment `json:"segments"`
}

type DuffelSegment struct {
	MarketingCarrier struct {
		Name string `json:"name"`
	} `json:"marketing_carrier"`
	MarketingCarrierFlightNumber string `json:"marketing_carrier_flight_number"`
	Origin                       struct {
		IATACode string `json:"iata_code"`
	} `json:"origin"`
	Destination struct {
		IATACode string `json:"iata_code"`
	} `json:"destination"`
	DepartingAt string `json:"departing_at"`
	ArrivingAt  string `json:"arriving_at"`
	Duration    string `json:"duration"`
	CabinClass  string `json:"cabin_class"`
}

func (o DuffelOffer) amount() float64 {
	v, err := strconv.ParseFloat(o.TotalAmount, 64)
	if err != nil {
		return 1e12
	}
	return v
}

// SearchOneWayTopN requests one-way offers with at most one connection and
// returns up to n of them, cheapest first.
func (d *Duffel) SearchOneWayTopN(ctx context.Context, origin, destination, date string, adults, n int) ([]DuffelOffer, error) {
	if !d.Configured() {
		return nil, ErrNotConfigured
	}
	if adults < 1 {
		adults = 1
	}

	passengers := make([]map[string]string, adults)
	for i := range passengers {
		passengers[i] = map[string]string{"type": "adult"}
	}
	body := map[string]any{
		"data": map[string]any{
			"slices": []map[string]string{{
				"origin":         origin,
				"destination":    destination,
				"departure_date": date,
			}},
			"passengers":      passengers,
			"max_connections": 1,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("providers: duffel marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.base+"/offer_requests", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("providers: duffel request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.cfg.DuffelToken)
	req.Header.Set("Duffel-Version", "v2")
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("providers: duffel %s->%s: %w", origin, destination, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("providers: duffel %s->%s %s: HTTP %d", origin, destination, date, resp.StatusCode)
	}

	var out struct {
		Data struct {
			Offers []DuffelOffer `json:"offers"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("providers: duffel decode: %w", err)
	}

	offers := out.Data.Offers
	sort.SliceStable(offers, func(i, j int) bool { return offers[i].amount() < offers[j].amount() })
	if len(offers) > n {
		offers = offers[:n]
	}
	return offers, nil
}

func legsFromSlice(slc DuffelSlice) ([]packages.FlightLeg, int, string) {
	legs := make([]packages.FlightLeg, 0, len(slc.Segments))
	for _, seg := range slc.Segments {
		legs = append(legs, packages.FlightLeg{
			Carrier:       seg.MarketingCarrier.Name,
			FlightNumber:  seg.MarketingCarrierFlightNumber,
			Origin:        seg.Origin.IATACode,
			Destination:   seg.Destination.IATACode,
			DepartureTime: seg.DepartingAt,
			ArrivalTime:   seg.ArrivingAt,
			DurationISO:   seg.Duration,
			CabinClass:    seg.CabinClass,
		})
	}
	stops := 0
	if len(slc.Segments) > 1 {
		stops = len(slc.Segments) - 1
	}
	return legs, stops, slc.Duration
}

func stopText(stops *int) string {
	switch {
	case stops == nil:
		return "unknown"
	case *stops == 0:
		return "direct"
	case *stops == 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", *stops)
	}
}

// NormalizeRoundTripPair folds two one-way offers into a single round-trip
// flight option. Either side may be nil.
func NormalizeRoundTripPair(origin, destination string, out, ret *DuffelOffer) packages.FlightOption {
	opt := packages.FlightOption{
		OriginIATA:      origin,
		DestinationIATA: destination,
		PriceCurrency:   "USD",
	}

	total := 0.0
	var airline string

	if out != nil {
		price, _ := strconv.ParseFloat(out.TotalAmount, 64)
		total += price
		opt.OutboundPrice = &price
		if out.TotalCurrency != "" {
			opt.PriceCurrency = out.TotalCurrency
		}
		if len(out.Slices) > 0 {
			legs, stops, dur := legsFromSlice(out.Slices[0])
			opt.LegsOutbound = legs
			opt.StopsOutbound = &stops
			opt.DurationOutboundISO = dur
			direct := stops == 0
			opt.IsDirectOutbound = &direct
			if len(legs) > 0 {
				airline = legs[0].Carrier
			}
		}
	}
	if ret != nil {
		price, _ := strconv.ParseFloat(ret.TotalAmount, 64)
		total += price
		opt.ReturnPrice = &price
		if opt.PriceCurrency == "USD" && out == nil && ret.TotalCurrency != "" {
			opt.PriceCurrency = ret.TotalCurrency
		}
		if len(ret.Slices) > 0 {
			legs, stops, dur := legsFromSlice(ret.Slices[0])
			opt.LegsReturn = legs
			opt.StopsReturn = &stops
			opt.DurationReturnISO = dur
			direct := stops == 0
			opt.IsDirectReturn = &direct
			if airline == "" && len(legs) > 0 {
				airline = legs[0].Carrier
			}
		}
	}

	opt.PriceTotal = total
	opt.Airline = airline

	display := airline
	if display == "" {
		display = "Mixed"
	}
	opt.Summary = fmt.Sprintf("%s-%s (%s, %s/%s)", origin, destination, display,
		stopText(opt.StopsOutbound), stopText(opt.StopsReturn))

	return opt
}
