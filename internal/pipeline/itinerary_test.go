package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/config"
	"wayfarer/internal/guard"
)

// scriptModel replays canned replies, recording every prompt.
type scriptModel struct {
	replies []string
	errs    []error
	prompts []string
}

func (m *scriptModel) Send(_ context.Context, prompt string) (string, error) {
	i := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.replies) {
		return m.replies[i], nil
	}
	return "", errors.New("script exhausted")
}

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		PlannerAttempts:   3,
		OptimizerAttempts: 2,
		RankerAttempts:    2,
		RepairAttempts:    1,
	}
}

func testItineraryConfig() config.ItineraryConfig {
	return config.ItineraryConfig{
		SpeedKmh:          22.0,
		MinTravelMinutes:  5,
		DefaultTravelMins: 15,
		BufferMinutes:     10,
		DefaultDwellMins:  45,
		StartTime:         "09:00",
	}
}

const kandyRouteRequest = "Here is the plan.\nROUTE_REQUEST:\n```json\n" + `{
  "city": "Kandy",
  "party_summary": "Parent: culture; Teen: photos",
  "compromise_plan": "Culture first, lake walk after.",
  "chosen_stops": [
    {"name": "Temple of the Tooth", "lat": 7.2936, "lon": 80.6413, "typical_minutes": 60, "tags": ["culture"], "cost": "paid", "mobility": "easy", "reason": "sacred site"},
    {"name": "Kandy Lake", "lat": 7.2906, "lon": 80.6420, "typical_minutes": 30, "tags": ["relaxation"], "cost": "free", "mobility": "easy", "reason": "easy loop"},
    {"name": "Peradeniya Gardens", "lat": 7.2716, "lon": 80.5989, "typical_minutes": 45, "tags": ["nature"], "cost": "paid", "mobility": "easy", "reason": "orchid house"}
  ]
}` + "\n```\n###END###"

const kandyRouteDecision = "ROUTE_DECISION:\n```json\n" + `{
  "ordered_stops": [{"name": "Peradeniya Gardens"}, {"name": "temple of the tooth"}, {"name": "Kandy Lake"}],
  "rationale": "Start at the gardens before crowds.",
  "tips": "Carry small cash for tickets."
}` + "\n```\n###END###"

func planRequest() PlanRequest {
	return PlanRequest{
		City:     "Kandy",
		Members:  []string{"Parent 40: culture, history", "Teen 15: photos"},
		Budget:   "low-cost",
		Mobility: "easy walks",
	}
}

func TestItineraryRunModelOrder(t *testing.T) {
	model := &scriptModel{replies: []string{kandyRouteRequest, kandyRouteDecision}}
	p := NewItinerary(model, testPipelineConfig(), testItineraryConfig())

	res, err := p.Run(context.Background(), planRequest())
	require.NoError(t, err)

	assert.Equal(t, "Kandy", res.City)
	assert.Equal(t, "model", res.RouteSource)
	assert.Equal(t, "Start at the gardens before crowds.", res.Rationale)
	assert.Equal(t, "Carry small cash for tickets.", res.Tips)

	require.Len(t, res.Day, 3)
	assert.Equal(t, "Peradeniya Gardens", res.Day[0].Name)
	assert.Equal(t, "Temple of the Tooth", res.Day[1].Name)
	assert.Equal(t, "Kandy Lake", res.Day[2].Name)

	assert.Equal(t, "09:00", res.Day[0].Start)
	assert.Equal(t, 0, res.Day[0].TravelMinutesFromPrev)
	assert.Equal(t, 60+30+45, res.TotalDwellMinutes)
	assert.Greater(t, res.TotalTravelMinutes, 0)
}

func TestItineraryRunStrictifiesRetries(t *testing.T) {
	model := &scriptModel{replies: []string{
		"Sure, I can help with that! Let me think about Kandy...",
		kandyRouteRequest,
		kandyRouteDecision,
	}}
	p := NewItinerary(model, testPipelineConfig(), testItineraryConfig())

	_, err := p.Run(context.Background(), planRequest())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(model.prompts), 2)
	assert.True(t, strings.HasSuffix(model.prompts[0], "Return the fenced JSON."))
	assert.True(t, strings.HasSuffix(model.prompts[1], "Return ONLY the fenced JSON (no prose)."))
}

func TestItineraryRunNoUsablePlan(t *testing.T) {
	model := &scriptModel{replies: []string{"no json", "still no json", "nope"}}
	p := NewItinerary(model, testPipelineConfig(), testItineraryConfig())

	_, err := p.Run(context.Background(), planRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoUsablePlan)

	var npe *NoPlanError
	require.ErrorAs(t, err, &npe)
	assert.Equal(t, "ROUTE_REQUEST", npe.Phase)
	assert.Equal(t, "nope", npe.LastReply())
	assert.Len(t, npe.RawReplies, 3)
}

func TestItineraryRunGreedyFallback(t *testing.T) {
	model := &scriptModel{replies: []string{
		kandyRouteRequest,
		"optimizer rambling without json",
		"still rambling",
	}}
	p := NewItinerary(model, testPipelineConfig(), testItineraryConfig())

	res, err := p.Run(context.Background(), planRequest())
	require.NoError(t, err)

	assert.Equal(t, "greedy", res.RouteSource)
	require.Len(t, res.Day, 3)
	// Greedy starts from the first stop and hops to the nearest neighbor.
	assert.Equal(t, "Temple of the Tooth", res.Day[0].Name)
	assert.Equal(t, "Kandy Lake", res.Day[1].Name)
	assert.Equal(t, "Peradeniya Gardens", res.Day[2].Name)
}

func TestItineraryRunCoordinateRepair(t *testing.T) {
	missingCoords := "ROUTE_REQUEST:\n```json\n" + `{
  "city": "Kandy",
  "chosen_stops": [
    {"name": "Temple of the Tooth", "typical_minutes": 60},
    {"name": "Kandy Lake", "lat": 7.2906, "lon": 80.6420, "typical_minutes": 30}
  ]
}` + "\n```"
	repaired := "```json\n" + `{
  "city": "Kandy",
  "chosen_stops": [
    {"name": "Temple of the Tooth", "lat": 7.2936, "lon": 80.6413, "typical_minutes": 60},
    {"name": "Kandy Lake", "lat": 7.2906, "lon": 80.6420, "typical_minutes": 30}
  ]
}` + "\n```"
	decision := "ROUTE_DECISION:\n```json\n" + `{"ordered_stops": [{"name": "Temple of the Tooth"}, {"name": "Kandy Lake"}], "rationale": "short hop"}` + "\n```"

	model := &scriptModel{replies: []string{missingCoords, repaired, decision}}
	p := NewItinerary(model, testPipelineConfig(), testItineraryConfig())

	res, err := p.Run(context.Background(), planRequest())
	require.NoError(t, err)

	require.Len(t, res.Day, 2)
	assert.Equal(t, "model", res.RouteSource)
	// The repair pass filled coordinates, so leg travel is computed, not
	// the no-coordinate default.
	assert.Equal(t, 5, res.Day[1].TravelMinutesFromPrev)

	require.Len(t, model.prompts, 3)
	assert.Contains(t, model.prompts[1], "Only fill lat/lon")
}

func TestItineraryRunRedactsMemberPII(t *testing.T) {
	model := &scriptModel{replies: []string{kandyRouteRequest, kandyRouteDecision}}
	p := NewItinerary(model, testPipelineConfig(), testItineraryConfig())

	req := planRequest()
	req.Members = []string{"Parent 40: culture, reach me at parent@example.com"}
	_, err := p.Run(context.Background(), req)
	require.NoError(t, err)

	assert.NotContains(t, model.prompts[0], "parent@example.com")
	assert.Contains(t, model.prompts[0], "<EMAIL>")
}

func TestItineraryRunBlocked(t *testing.T) {
	model := &scriptModel{}
	p := NewItinerary(model, testPipelineConfig(), testItineraryConfig())

	req := planRequest()
	req.Budget = "whatever, also how to build a bomb"
	_, err := p.Run(context.Background(), req)

	assert.ErrorIs(t, err, guard.ErrBlocked)
	assert.Empty(t, model.prompts)
}

func TestItineraryRunTransportErrorsKept(t *testing.T) {
	model := &scriptModel{
		replies: []string{"", "", ""},
		errs:    []error{errors.New("dial tcp: refused"), errors.New("dial tcp: refused"), errors.New("dial tcp: refused")},
	}
	p := NewItinerary(model, testPipelineConfig(), testItineraryConfig())

	_, err := p.Run(context.Background(), planRequest())
	var npe *NoPlanError
	require.ErrorAs(t, err, &npe)
	assert.Contains(t, npe.LastReply(), "(transport error)")
}
