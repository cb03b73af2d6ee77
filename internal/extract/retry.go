package extract

import (
	"context"

	"go.uber.org/zap"

	"wayfarer/internal/ai"
)

// PromptBuilder produces the prompt for a given attempt. Later attempts
// should tighten the wording ("Return ONLY the fenced JSON, no prose.").
type PromptBuilder func(attempt int) string

// RunWithRetries asks the model for a labeled JSON object, up to attempts
// times. It returns the first extracted object, all raw replies collected
// so far, and whether extraction succeeded. A transport error counts as a
// failed attempt; its text is kept in the reply list for diagnostics.
func RunWithRetries(ctx context.Context, model ai.ChatModel, build PromptBuilder, attempts int, label string) (Object, []string, bool) {
	var raws []string
	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return nil, raws, false
		}

		reply, err := model.Send(ctx, build(attempt))
		if err != nil {
			zap.L().Warn("chat call failed",
				zap.String("label", label),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			raws = append(raws, "(transport error) "+err.Error())
			continue
		}
		raws = append(raws, reply)

		if obj, ok := Labeled(label, reply); ok {
			return obj, raws, true
		}
		zap.L().Debug("no parsable JSON in reply",
			zap.String("label", label),
			zap.Int("attempt", attempt),
			zap.Int("reply_len", len(reply)),
		)
	}
	return nil, raws, false
}
