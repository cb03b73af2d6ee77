package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type rdapResponse struct {
	Events []rdapEvent `json:"events"`
}

type rdapEvent struct {
	EventAction string `json:"eventAction"`
	EventDate   string `json:"eventDate"`
}

// DomainAgeDays returns the registration age of a domain via RDAP (no key
// required). ok=false when the record or registration event is unavailable.
func (c *Client) DomainAgeDays(ctx context.Context, domain string) (int, bool) {
	if domain == "" {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.RDAPBaseURL+"/domain/"+domain, nil)
	if err != nil {
		return 0, false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Debug("rdap lookup failed", zap.String("domain", domain), zap.Error(err))
		return 0, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, false
	}

	var out rdapResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, false
	}

	for _, ev := range out.Events {
		if ev.EventAction != "registration" || ev.EventDate == "" {
			continue
		}
		reg, err := time.Parse(time.RFC3339, ev.EventDate)
		if err != nil {
			continue
		}
		age := int(time.Since(reg).Hours() / 24)
		return age, true
	}
	return 0, false
}
