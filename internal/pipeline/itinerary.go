package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wayfarer/internal/ai"
	"wayfarer/internal/config"
	"wayfarer/internal/extract"
	"wayfarer/internal/guard"
	"wayfarer/internal/modules/itinerary"
)

// PlanRequest is a group day-trip request.
type PlanRequest struct {
	City     string   `json:"city" binding:"required"`
	Members  []string `json:"members" binding:"required,min=1"`
	Budget   string   `json:"budget,omitempty"`
	Mobility string   `json:"mobility,omitempty"`
}

// PlanResult is a scheduled one-day itinerary.
type PlanResult struct {
	City               string                    `json:"city"`
	PartySummary       string                    `json:"party_summary,omitempty"`
	CompromisePlan     string                    `json:"compromise_plan,omitempty"`
	RouteSource        string                    `json:"route_source"` // "model" or "greedy"
	Rationale          string                    `json:"rationale,omitempty"`
	Tips               string                    `json:"tips,omitempty"`
	Day                []itinerary.ScheduledStop `json:"day"`
	TotalTravelMinutes int                       `json:"total_travel_minutes"`
	TotalDwellMinutes  int                       `json:"total_dwell_minutes"`
}

const (
	routeSourceModel  = "model"
	routeSourceGreedy = "greedy"
)

const routeRequestExample = `ROUTE_REQUEST:
` + "```json" + `
{
  "city": "Exampleville",
  "party_summary": "Parents: culture; Teen: shopping; Elder: relaxing",
  "compromise_plan": "Culture in the morning, relaxing lunch, shopping afternoon.",
  "constraints": {"budget": "low-cost", "mobility": "wheelchair friendly"},
  "chosen_stops": [
    {"name": "City Museum", "lat": 12.34, "lon": 56.78, "typical_minutes": 60, "tags": ["culture", "history"], "cost": "paid", "mobility": "easy", "reason": "indoor, accessible"},
    {"name": "Central Park", "lat": 12.35, "lon": 56.79, "typical_minutes": 45, "tags": ["relaxation", "nature"], "cost": "free", "mobility": "easy", "reason": "flat paths, benches"},
    {"name": "Market Street", "lat": 12.36, "lon": 56.80, "typical_minutes": 60, "tags": ["shopping", "food"], "cost": "free", "mobility": "easy", "reason": "affordable souvenirs"}
  ]
}
` + "```"

const routeDecisionSchema = `ROUTE_DECISION:
` + "```json" + `
{
  "ordered_stops": [{"name": ""}],
  "rationale": "string",
  "tips": "string"
}
` + "```"

// Itinerary runs the group trip planning pipeline: attraction generation,
// normalization, optional coordinate repair, route ordering with a greedy
// fallback, and day scheduling.
type Itinerary struct {
	model     ai.ChatModel
	cfg       config.PipelineConfig
	itinCfg   config.ItineraryConfig
	scheduler *itinerary.Scheduler
}

func NewItinerary(model ai.ChatModel, cfg config.PipelineConfig, itinCfg config.ItineraryConfig) *Itinerary {
	return &Itinerary{
		model:     model,
		cfg:       cfg,
		itinCfg:   itinCfg,
		scheduler: itinerary.NewScheduler(itinCfg),
	}
}

func (p *Itinerary) plannerPrompt(req PlanRequest) extract.PromptBuilder {
	profiles := make([]string, len(req.Members))
	for i, m := range req.Members {
		profiles[i] = "- " + guard.Redact(m)
	}
	base := fmt.Sprintf(
		"ROLE: Group trip planner for tourists. Support ANY destination; use safe public attractions within ~30 km.\n"+
			"TASK: Merge the group's preferences fairly, propose a compromise, and choose 3-5 stops for a 1-day plan.\n"+
			"For EACH stop provide: name, lat, lon, typical_minutes, tags, cost (free|low|paid), mobility (easy|stairs|trail), reason. Coordinates are REQUIRED; approximate realistically if needed.\n\n"+
			"EXAMPLE (copy structure):\n%s\n\n"+
			"DESTINATION: %s\nGROUP MEMBERS:\n%s\nBUDGET: %s\nMOBILITY: %s\n\n",
		routeRequestExample, req.City, strings.Join(profiles, "\n"), req.Budget, req.Mobility)

	return func(attempt int) string {
		if attempt == 0 {
			return base + "Return the fenced JSON."
		}
		return base + "Return ONLY the fenced JSON (no prose)."
	}
}

func (p *Itinerary) optimizerPrompt(city string, constraints map[string]any, stops []itinerary.Stop) extract.PromptBuilder {
	payload, _ := json.MarshalIndent(map[string]any{
		"city":         city,
		"constraints":  constraints,
		"chosen_stops": stops,
	}, "", "  ")
	base := fmt.Sprintf(
		"ROLE: Route optimizer. Reorder the stops to minimize travel (~%.0f km/h), respect mobility constraints, add %d-min buffers.\n"+
			"Optimize this request:\n%s\n\nOUTPUT STRICT JSON (fenced) exactly like:\n%s\n\n",
		p.itinCfg.SpeedKmh, p.itinCfg.BufferMinutes, payload, routeDecisionSchema)

	return func(attempt int) string {
		if attempt == 0 {
			return base + "Return ROUTE_DECISION JSON (fenced)."
		}
		return base + "Return ONLY the fenced ROUTE_DECISION JSON (no prose)."
	}
}

// Run executes the pipeline. A parse failure in the generation phase is
// terminal; a failure in the ordering phase degrades to the greedy route.
func (p *Itinerary) Run(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	gateText := strings.Join(append([]string{req.City, req.Budget, req.Mobility}, req.Members...), " ")
	if err := guard.CheckPolicy(gateText); err != nil {
		return nil, err
	}

	routeReq, raws, ok := extract.RunWithRetries(ctx, p.model, p.plannerPrompt(req), p.cfg.PlannerAttempts, "ROUTE_REQUEST")
	if !ok {
		return nil, &NoPlanError{Phase: "ROUTE_REQUEST", RawReplies: raws}
	}

	rawStops, _ := routeReq["chosen_stops"].([]any)
	chosen := itinerary.NormalizeStops(rawStops, p.itinCfg.DefaultDwellMins)
	if len(chosen) == 0 {
		return nil, &NoPlanError{Phase: "ROUTE_REQUEST", RawReplies: raws}
	}

	city := stringField(routeReq, "city")
	if city == "" {
		city = req.City
	}

	chosen = p.repairCoords(ctx, city, chosen)

	constraints, _ := routeReq["constraints"].(map[string]any)
	if constraints == nil {
		constraints = map[string]any{"budget": req.Budget, "mobility": req.Mobility}
	}

	decision, _, decided := extract.RunWithRetries(ctx, p.model,
		p.optimizerPrompt(city, constraints, chosen), p.cfg.OptimizerAttempts, "ROUTE_DECISION")

	var ordered []itinerary.Stop
	source := routeSourceModel
	var rationale, tips string
	if decided {
		ordered = orderByDecision(chosen, decision)
		rationale = stringField(decision, "rationale")
		tips = stringField(decision, "tips")
	}
	if len(ordered) == 0 {
		ordered = itinerary.GreedyRoute(chosen)
		source = routeSourceGreedy
		zap.L().Info("route decision unavailable, using greedy order",
			zap.String("city", city), zap.Int("stops", len(ordered)))
	}

	day, err := p.scheduler.ScheduleDay(ordered, p.itinCfg.StartTime)
	if err != nil {
		return nil, fmt.Errorf("pipeline: schedule day: %w", err)
	}

	result := &PlanResult{
		City:           city,
		PartySummary:   stringField(routeReq, "party_summary"),
		CompromisePlan: stringField(routeReq, "compromise_plan"),
		RouteSource:    source,
		Rationale:      rationale,
		Tips:           tips,
		Day:            day,
	}
	for _, s := range day {
		result.TotalTravelMinutes += s.TravelMinutesFromPrev
		result.TotalDwellMinutes += s.DwellMinutes
	}
	return result, nil
}

// repairCoords asks the model to fill missing lat/lon without touching
// anything else. Failures leave the stops as they were; the greedy router
// copes with partly geocoded lists.
func (p *Itinerary) repairCoords(ctx context.Context, city string, chosen []itinerary.Stop) []itinerary.Stop {
	missing := false
	for _, s := range chosen {
		if !s.HasCoords() {
			missing = true
			break
		}
	}
	if !missing {
		return chosen
	}

	payload, _ := json.MarshalIndent(map[string]any{"city": city, "chosen_stops": chosen}, "", "  ")
	prompt := "For any stop missing lat/lon, add realistic decimal coordinates for the destination area. " +
		"DO NOT add, remove, rename, or reorder stops. Only fill lat/lon.\n" +
		"Here is the JSON to fix:\n```json\n" + string(payload) + "\n```\n" +
		"Return ONLY the updated JSON in a fenced block."

	for attempt := 0; attempt < p.cfg.RepairAttempts; attempt++ {
		reply, err := p.model.Send(ctx, prompt)
		if err != nil {
			zap.L().Warn("coordinate repair call failed", zap.Error(err))
			continue
		}
		fixed, ok := extract.First(reply)
		if !ok {
			continue
		}
		rawStops, ok := fixed["chosen_stops"].([]any)
		if !ok {
			continue
		}
		repaired := itinerary.NormalizeStops(rawStops, p.itinCfg.DefaultDwellMins)
		if len(repaired) > 0 {
			return repaired
		}
	}
	return chosen
}

// orderByDecision applies the model's stop order by case-insensitive name
// match, then appends any stops the model dropped.
func orderByDecision(chosen []itinerary.Stop, decision extract.Object) []itinerary.Stop {
	rawOrder, ok := decision["ordered_stops"].([]any)
	if !ok {
		return nil
	}

	var names []string
	for _, entry := range rawOrder {
		switch v := entry.(type) {
		case map[string]any:
			if name, ok := v["name"].(string); ok {
				names = append(names, name)
			}
		case string:
			names = append(names, v)
		}
	}

	used := make(map[int]bool, len(chosen))
	ordered := make([]itinerary.Stop, 0, len(chosen))
	for _, name := range names {
		for i, stop := range chosen {
			if !used[i] && strings.EqualFold(stop.Name, name) {
				ordered = append(ordered, stop)
				used[i] = true
				break
			}
		}
	}
	for i, stop := range chosen {
		if !used[i] {
			ordered = append(ordered, stop)
		}
	}
	return ordered
}

func stringField(obj extract.Object, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
