package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const safeBrowsingURL = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

type gsbRequest struct {
	Client     gsbClient     `json:"client"`
	ThreatInfo gsbThreatInfo `json:"threatInfo"`
}

type gsbClient struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type gsbThreatInfo struct {
	ThreatTypes      []string   `json:"threatTypes"`
	PlatformTypes    []string   `json:"platformTypes"`
	ThreatEntryTypes []string   `json:"threatEntryTypes"`
	ThreatEntries    []gsbEntry `json:"threatEntries"`
}

type gsbEntry struct {
	URL string `json:"url"`
}

type gsbResponse struct {
	Matches []json.RawMessage `json:"matches"`
}

// IsMalicious runs a Google Safe Browsing v4 check. ok=false when no key is
// configured or the call fails.
func (c *Client) IsMalicious(ctx context.Context, rawURL string) (bool, bool) {
	if c.cfg.SafeBrowsingKey == "" || rawURL == "" {
		return false, false
	}

	payload := gsbRequest{
		Client: gsbClient{ClientID: "wayfarer", ClientVersion: "1.0"},
		ThreatInfo: gsbThreatInfo{
			ThreatTypes: []string{
				"MALWARE",
				"SOCIAL_ENGINEERING",
				"UNWANTED_SOFTWARE",
				"POTENTIALLY_HARMFUL_APPLICATION",
			},
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries:    []gsbEntry{{URL: rawURL}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, safeBrowsingURL+"?key="+c.cfg.SafeBrowsingKey, bytes.NewReader(body))
	if err != nil {
		return false, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Debug("safe browsing lookup failed", zap.Error(err))
		return false, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		zap.L().Debug("safe browsing lookup non-200", zap.Int("status", resp.StatusCode))
		return false, false
	}

	var out gsbResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, false
	}
	return len(out.Matches) > 0, true
}
