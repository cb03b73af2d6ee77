// README: Live data sources for the safety pipeline (thin glue, degrade to ok=false).
package lookup

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"googlemaps.github.io/maps"

	"wayfarer/internal/config"
)

// Sources is what the risk scorer consumes. Every method returns
// (value, ok): a network failure, missing key, or timeout is ok=false,
// never an error that aborts a scoring batch.
type Sources interface {
	IsMalicious(ctx context.Context, url string) (bool, bool)
	DomainAgeDays(ctx context.Context, domain string) (int, bool)
	MedianPrice(ctx context.Context, city, name string) (float64, bool)
	OfficialWebsite(ctx context.Context, city, name string) (string, bool)
	WeatherTip(ctx context.Context, city string) (string, bool)
	CountryAdvisory(ctx context.Context, countryCode string) (float64, string, bool)
}

// Client implements Sources against the real services: Google Safe Browsing,
// rdap.org, Google Places, OpenWeather, and travel-advisory.info.
type Client struct {
	cfg  config.LookupConfig
	http *http.Client
	maps *maps.Client
}

func NewClient(cfg config.LookupConfig) (*Client, error) {
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
	}
	if cfg.MapsKey != "" {
		mc, err := maps.NewClient(maps.WithAPIKey(cfg.MapsKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create maps client: %w", err)
		}
		c.maps = mc
	}
	return c, nil
}

func (c *Client) timeout() time.Duration {
	return time.Duration(c.cfg.TimeoutSecs) * time.Second
}
