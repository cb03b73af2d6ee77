package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type advisoryResponse struct {
	Data map[string]struct {
		Advisory struct {
			Score   *float64 `json:"score"`
			Message string   `json:"message"`
		} `json:"advisory"`
	} `json:"data"`
}

// CountryAdvisory returns the travel-advisory.info score (~0 safe .. 5 risky)
// and message for an ISO2 country code. No key required.
func (c *Client) CountryAdvisory(ctx context.Context, countryCode string) (float64, string, bool) {
	cc := strings.ToUpper(strings.TrimSpace(countryCode))
	if cc == "" {
		return 0, "", false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.AdvisoryBaseURL+"/api?countrycode="+cc, nil)
	if err != nil {
		return 0, "", false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Debug("advisory lookup failed", zap.String("country", cc), zap.Error(err))
		return 0, "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, "", false
	}

	var out advisoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, "", false
	}
	entry, found := out.Data[cc]
	if !found || entry.Advisory.Score == nil {
		return 0, "", false
	}
	return *entry.Advisory.Score, entry.Advisory.Message, true
}
