package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"wayfarer/internal/config"
	"wayfarer/internal/guard"
	"wayfarer/internal/lookup"
	"wayfarer/internal/modules/safety"
)

// Safety runs the deterministic scam-check pipeline: policy gate, PII
// redaction, concurrent per-item risk scoring, and report assembly. No
// model call is involved; the signals come from live lookups.
type Safety struct {
	scorer *safety.Scorer
	src    lookup.Sources
}

func NewSafety(cfg config.SafetyConfig, src lookup.Sources) *Safety {
	return &Safety{scorer: safety.NewScorer(cfg, src), src: src}
}

// Run vets a payload and builds the aggregated report.
func (p *Safety) Run(ctx context.Context, payload safety.PlannerPayload) (*safety.Report, error) {
	var gate strings.Builder
	gate.WriteString(payload.City)
	for _, item := range payload.Items {
		gate.WriteString(" ")
		gate.WriteString(item.Name)
	}
	if err := guard.CheckPolicy(gate.String()); err != nil {
		return nil, err
	}

	// Reviews are free text from vendors; scrub contact details before
	// they can reach logs or the report.
	for i := range payload.Items {
		for j, review := range payload.Items[i].Reviews {
			payload.Items[i].Reviews[j] = guard.Redact(review)
		}
	}

	checks := p.scorer.ScorePayload(ctx, payload)
	report := safety.BuildReport(ctx, p.src, payload, checks)

	zap.L().Info("safety report built",
		zap.String("city", payload.City),
		zap.Int("items", len(payload.Items)),
		zap.String("badge", report.Badge),
	)
	return &report, nil
}
