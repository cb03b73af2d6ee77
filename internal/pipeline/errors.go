// README: Orchestration pipelines: LLM phases with retries, deterministic
// fallbacks, and a shared failure contract.
package pipeline

import "errors"

// ErrNoUsablePlan means the model never produced a parsable payload for a
// required phase. There is no deterministic fallback for generation, so
// this is terminal.
var ErrNoUsablePlan = errors.New("pipeline: no usable plan")

// NoPlanError carries the raw model replies for diagnostics. Callers match
// it with errors.Is(err, ErrNoUsablePlan).
type NoPlanError struct {
	Phase      string
	RawReplies []string
}

func (e *NoPlanError) Error() string {
	return "pipeline: no usable plan from phase " + e.Phase
}

func (e *NoPlanError) Unwrap() error { return ErrNoUsablePlan }

// LastReply returns the most recent raw model reply, or "" when the model
// was never reached.
func (e *NoPlanError) LastReply() string {
	if len(e.RawReplies) == 0 {
		return ""
	}
	return e.RawReplies[len(e.RawReplies)-1]
}
