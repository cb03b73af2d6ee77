package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"wayfarer/internal/ai"
	"wayfarer/internal/config"
	"wayfarer/internal/extract"
	"wayfarer/internal/guard"
	"wayfarer/internal/modules/itinerary"
)

// RankRequest asks for attractions at a destination ranked for a set of
// interests.
type RankRequest struct {
	Destination string   `json:"destination" binding:"required"`
	Interests   []string `json:"interests,omitempty"`
}

// RankResult is the ordered attraction list.
type RankResult struct {
	Destination string                 `json:"destination"`
	RankSource  string                 `json:"rank_source"` // "model" or "rating"
	Rationale   string                 `json:"rationale,omitempty"`
	Attractions []itinerary.Attraction `json:"attractions"`
}

const (
	rankSourceModel  = "model"
	rankSourceRating = "rating"
)

const attractionListExample = `ATTRACTION_LIST:
` + "```json" + `
{
  "destination": "Exampleville",
  "attractions": [
    {"name": "City Museum", "category": "culture", "tags": ["history", "indoor"], "rating": 4.5, "cost": "paid", "crowd_level": "moderate", "photo_tip": "Atrium skylight at noon", "reason": "flagship collection"},
    {"name": "Harbor Walk", "category": "nature", "tags": ["sunset", "easy walk"], "rating": 4.2, "cost": "free", "crowd_level": "busy", "photo_tip": "Pier at golden hour", "reason": "best views in town"}
  ]
}
` + "```"

const rankDecisionSchema = `RANK_DECISION:
` + "```json" + `
{
  "ranked": [{"name": ""}],
  "rationale": "string"
}
` + "```"

// Ranker runs the attraction ranking pipeline: attraction generation, then
// an LLM ranking pass with a rating-ordered fallback.
type Ranker struct {
	model ai.ChatModel
	cfg   config.PipelineConfig
}

func NewRanker(model ai.ChatModel, cfg config.PipelineConfig) *Ranker {
	return &Ranker{model: model, cfg: cfg}
}

func (r *Ranker) listPrompt(req RankRequest) extract.PromptBuilder {
	base := fmt.Sprintf(
		"ROLE: Local attraction scout. Suggest 5-8 real public attractions for the destination.\n"+
			"For EACH attraction provide: name, category, tags, rating (0-5), cost (free|low|paid), crowd_level, photo_tip, reason.\n\n"+
			"EXAMPLE (copy structure):\n%s\n\n"+
			"DESTINATION: %s\nINTERESTS: %s\n\n",
		attractionListExample, req.Destination, strings.Join(req.Interests, ", "))

	return func(attempt int) string {
		if attempt == 0 {
			return base + "Return the fenced JSON."
		}
		return base + "Return ONLY the fenced JSON (no prose)."
	}
}

func (r *Ranker) rankPrompt(req RankRequest, attractions []itinerary.Attraction) extract.PromptBuilder {
	payload, _ := json.MarshalIndent(map[string]any{
		"destination": req.Destination,
		"interests":   req.Interests,
		"attractions": attractions,
	}, "", "  ")
	base := fmt.Sprintf(
		"ROLE: Trip curator. Rank these attractions best-first for the stated interests. Do not add or rename attractions.\n"+
			"Rank this list:\n%s\n\nOUTPUT STRICT JSON (fenced) exactly like:\n%s\n\n",
		payload, rankDecisionSchema)

	return func(attempt int) string {
		if attempt == 0 {
			return base + "Return RANK_DECISION JSON (fenced)."
		}
		return base + "Return ONLY the fenced RANK_DECISION JSON (no prose)."
	}
}

// Run executes the pipeline. Generation failure is terminal; ranking
// failure falls back to rating order.
func (r *Ranker) Run(ctx context.Context, req RankRequest) (*RankResult, error) {
	gateText := req.Destination + " " + strings.Join(req.Interests, " ")
	if err := guard.CheckPolicy(gateText); err != nil {
		return nil, err
	}

	list, raws, ok := extract.RunWithRetries(ctx, r.model, r.listPrompt(req), r.cfg.PlannerAttempts, "ATTRACTION_LIST")
	if !ok {
		return nil, &NoPlanError{Phase: "ATTRACTION_LIST", RawReplies: raws}
	}

	rawAttractions, _ := list["attractions"].([]any)
	attractions := itinerary.NormalizeAttractions(rawAttractions)
	if len(attractions) == 0 {
		return nil, &NoPlanError{Phase: "ATTRACTION_LIST", RawReplies: raws}
	}

	destination := stringField(list, "destination")
	if destination == "" {
		destination = req.Destination
	}

	decision, _, decided := extract.RunWithRetries(ctx, r.model,
		r.rankPrompt(req, attractions), r.cfg.RankerAttempts, "RANK_DECISION")

	var ordered []itinerary.Attraction
	source := rankSourceModel
	var rationale string
	if decided {
		ordered = rankByDecision(attractions, decision)
		rationale = stringField(decision, "rationale")
	}
	if len(ordered) == 0 {
		ordered = rankByRating(attractions)
		source = rankSourceRating
		zap.L().Info("rank decision unavailable, ordering by rating",
			zap.String("destination", destination), zap.Int("attractions", len(ordered)))
	}

	return &RankResult{
		Destination: destination,
		RankSource:  source,
		Rationale:   rationale,
		Attractions: ordered,
	}, nil
}

func rankByDecision(attractions []itinerary.Attraction, decision extract.Object) []itinerary.Attraction {
	rawOrder, ok := decision["ranked"].([]any)
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

	used := make(map[int]bool, len(attractions))
	ordered := make([]itinerary.Attraction, 0, len(attractions))
	for _, name := range names {
		for i, a := range attractions {
			if !used[i] && strings.EqualFold(a.Name, name) {
				ordered = append(ordered, a)
				used[i] = true
				break
			}
		}
	}
	for i, a := range attractions {
		if !used[i] {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

// rankByRating orders by rating descending; unrated entries keep their
// relative order at the end.
func rankByRating(attractions []itinerary.Attraction) []itinerary.Attraction {
	ordered := append([]itinerary.Attraction(nil), attractions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := ordered[i].Rating, ordered[j].Rating
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri > *rj
		}
	})
	return ordered
}
