package ai

import (
	"context"
)

// ChatModel is the opaque LLM call: prompt text in, free-text reply out.
// No structure is guaranteed on the reply; extraction and repair happen
// entirely on the caller's side.
type ChatModel interface {
	Send(ctx context.Context, prompt string) (string, error)
}
