// README: PII redaction and banned-topic gate, applied before any external call.
package guard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrBlocked marks a request rejected by the content policy. This is a
// deliberate refusal, not a failure.
var ErrBlocked = errors.New("request blocked by content policy")

// Small guardrail list. A real deployment would use a richer policy service.
var bannedTopics = []string{
	"weapons",
	"explicit sexual content",
	"hate",
	"terror",
	"bomb",
	"kill",
}

type piiPattern struct {
	re   *regexp.Regexp
	repl string
}

// Card pattern runs before the phone pattern so 16-digit card numbers are
// tagged <CARD> rather than swallowed by the looser phone match.
var piiPatterns = []piiPattern{
	{regexp.MustCompile(`\b[\w.\-]+@[\w.\-]+\.\w{2,}\b`), "<EMAIL>"},
	{regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`), "<CARD>"},
	{regexp.MustCompile(`\b\+?\d[\d\-\s]{7,}\d\b`), "<PHONE>"},
}

// Redact replaces email, phone-like, and card-like substrings with
// placeholder tags and trims surrounding whitespace.
func Redact(text string) string {
	s := text
	for _, p := range piiPatterns {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return strings.TrimSpace(s)
}

// CheckPolicy scans the text for banned topics, case-insensitively.
// A hit returns an error wrapping ErrBlocked with the offending topic.
func CheckPolicy(text string) error {
	lo := strings.ToLower(text)
	for _, topic := range bannedTopics {
		if strings.Contains(lo, topic) {
			return fmt.Errorf("%w: %s", ErrBlocked, topic)
		}
	}
	return nil
}
