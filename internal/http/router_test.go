package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/config"
	wayhttp "wayfarer/internal/http"
	"wayfarer/internal/pipeline"
)

// scriptModel replays canned replies to the pipelines under test.
type scriptModel struct {
	replies []string
	calls   int
}

func (m *scriptModel) Send(_ context.Context, _ string) (string, error) {
	i := m.calls
	m.calls++
	if i < len(m.replies) {
		return m.replies[i], nil
	}
	return "no json here", nil
}

// nullSources answers every live lookup with a miss.
type nullSources struct{}

func (nullSources) IsMalicious(context.Context, string) (bool, bool)            { return false, false }
func (nullSources) DomainAgeDays(context.Context, string) (int, bool)           { return 0, false }
func (nullSources) MedianPrice(context.Context, string, string) (float64, bool) { return 0, false }
func (nullSources) OfficialWebsite(context.Context, string, string) (string, bool) {
	return "", false
}
func (nullSources) WeatherTip(context.Context, string) (string, bool) { return "", false }
func (nullSources) CountryAdvisory(context.Context, string) (float64, string, bool) {
	return 0, "", false
}

const routeRequestReply = "ROUTE_REQUEST:\n```json\n" + `{
  "city": "Kandy",
  "chosen_stops": [
    {"name": "Temple of the Tooth", "lat": 7.2936, "lon": 80.6413, "typical_minutes": 60},
    {"name": "Kandy Lake", "lat": 7.2906, "lon": 80.6420, "typical_minutes": 30}
  ]
}` + "\n```"

const routeDecisionReply = "ROUTE_DECISION:\n```json\n" + `{"ordered_stops": [{"name": "Temple of the Tooth"}, {"name": "Kandy Lake"}], "rationale": "short hop"}` + "\n```"

func buildTestRouter(model *scriptModel) http.Handler {
	gin.SetMode(gin.TestMode)

	pipeCfg := config.PipelineConfig{PlannerAttempts: 2, OptimizerAttempts: 1, RankerAttempts: 1, RepairAttempts: 1}
	itinCfg := config.ItineraryConfig{
		SpeedKmh: 22.0, MinTravelMinutes: 5, DefaultTravelMins: 15,
		BufferMinutes: 10, DefaultDwellMins: 45, StartTime: "09:00",
	}
	safetyCfg := config.SafetyConfig{SpamRepeatThreshold: 3, CheapRatio: 0.5, YoungDomainDays: 90, MaxConcurrentChecks: 2}

	return wayhttp.NewRouter(wayhttp.RouterDeps{
		Planner:  pipeline.NewItinerary(model, pipeCfg, itinCfg),
		Ranker:   pipeline.NewRanker(model, pipeCfg),
		Safety:   pipeline.NewSafety(safetyCfg, nullSources{}),
		Packager: pipeline.NewPackager(config.ProvidersConfig{}),
		Timeout:  5 * time.Second,
	})
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := buildTestRouter(&scriptModel{})
	w := doRequest(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestPlanOK(t *testing.T) {
	r := buildTestRouter(&scriptModel{replies: []string{routeRequestReply, routeDecisionReply}})
	w := doRequest(t, r, http.MethodPost, "/api/plan", map[string]any{
		"city":    "Kandy",
		"members": []string{"Parent 40: culture"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res pipeline.PlanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Kandy", res.City)
	assert.Equal(t, "model", res.RouteSource)
	assert.Len(t, res.Day, 2)
}

func TestPlanMissingFields(t *testing.T) {
	r := buildTestRouter(&scriptModel{})
	w := doRequest(t, r, http.MethodPost, "/api/plan", map[string]any{"city": "Kandy"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanBlocked(t *testing.T) {
	r := buildTestRouter(&scriptModel{})
	w := doRequest(t, r, http.MethodPost, "/api/plan", map[string]any{
		"city":    "Kandy",
		"members": []string{"wants to build a bomb"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPlanNoUsablePlanIs502(t *testing.T) {
	r := buildTestRouter(&scriptModel{replies: []string{"rambling", "more rambling"}})
	w := doRequest(t, r, http.MethodPost, "/api/plan", map[string]any{
		"city":    "Kandy",
		"members": []string{"Parent 40: culture"},
	})
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp struct {
		Error    string `json:"error"`
		RawReply string `json:"raw_reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "more rambling", resp.RawReply)
}

func TestRankMissingDestination(t *testing.T) {
	r := buildTestRouter(&scriptModel{})
	w := doRequest(t, r, http.MethodPost, "/api/rank", map[string]any{"interests": []string{"food"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSafetyOK(t *testing.T) {
	r := buildTestRouter(&scriptModel{})
	w := doRequest(t, r, http.MethodPost, "/api/safety", map[string]any{
		"city": "Kandy",
		"items": []map[string]any{
			{"name": "Temple ticket", "url": "http://tooth-temple.shop", "payment_methods": []string{"whatsapp"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var report struct {
		Badge string `json:"badge"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	// no-HTTPS +10 and whatsapp +30 trip the AMBER badge offline.
	assert.Equal(t, "AMBER", report.Badge)
}

func TestPackagesOKWithMocks(t *testing.T) {
	r := buildTestRouter(&scriptModel{})
	w := doRequest(t, r, http.MethodPost, "/api/packages", map[string]any{
		"text": "trip to Dubai for 4 nights, 2 adults",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res pipeline.PackageResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "mock", res.FlightSource)
	assert.Equal(t, "mock", res.HotelSource)
	assert.NotEmpty(t, res.Combos.Combos)
}

func TestPackagesInvalidJSON(t *testing.T) {
	r := buildTestRouter(&scriptModel{})
	req := httptest.NewRequest(http.MethodPost, "/api/packages", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
