package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const openWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

type weatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// WeatherTip returns one short, actionable tip based on current conditions,
// or ok=false when there is nothing noteworthy or the lookup fails.
func (c *Client) WeatherTip(ctx context.Context, city string) (string, bool) {
	if c.cfg.OpenWeatherKey == "" || city == "" {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.cfg.OpenWeatherKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openWeatherURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Debug("weather lookup failed", zap.String("city", city), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var out weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false
	}

	main := ""
	if len(out.Weather) > 0 {
		main = strings.ToLower(out.Weather[0].Main)
	}

	switch {
	case main == "rain" || main == "thunderstorm" || main == "drizzle":
		return "Rain expected—carry a raincoat; waterproof your devices.", true
	case main == "snow":
		return "Snow/ice risk—allow extra travel time and wear proper shoes.", true
	case out.Main.FeelsLike >= 35:
		return "High heat—hydrate often and avoid midday sun.", true
	case out.Wind.Speed >= 12: // ~40+ km/h
		return "Strong wind—secure hats/umbrellas near viewpoints/coast.", true
	}
	return "", false
}
