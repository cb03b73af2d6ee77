// README: Structured-reply extractor; digs a JSON object out of free-form LLM text.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Object is a parsed JSON object from a model reply, untyped beyond
// "valid JSON object". Absence is a first-class outcome, not an error.
type Object = map[string]any

var (
	fencedRe = regexp.MustCompile("(?is)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	colonRe  = regexp.MustCompile(`:[ \t]*\{`)
)

// First locates the first JSON-decodable object in text, trying in order:
// any fenced block, a ": {...}" pattern, and finally a brace-balance scan.
// Models vary in how they wrap JSON (prose around it, nested fences, no
// fences at all), so a single pattern is not enough.
func First(text string) (Object, bool) {
	var candidates []string
	if m := fencedRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	// Balance-scan from the colon rather than regex-capturing to the last
	// brace in the text, which rarely parses when prose follows the object.
	if loc := colonRe.FindStringIndex(text); loc != nil {
		if c, ok := balancedObject(text[loc[0]:]); ok {
			candidates = append(candidates, c)
		}
	}
	if c, ok := balancedObject(text); ok {
		candidates = append(candidates, c)
	}
	return decodeFirst(candidates)
}

// Labeled looks for a JSON object prefixed by the given label (e.g.
// "ROUTE_REQUEST"), fenced or bare, before falling back to First.
func Labeled(label, text string) (Object, bool) {
	labelQ := regexp.QuoteMeta(label)

	fenced := regexp.MustCompile(fmt.Sprintf("(?is)%s\\s*:\\s*```(?:json)?\\s*(\\{.*?\\})\\s*```", labelQ))
	if m := fenced.FindStringSubmatch(text); m != nil {
		if obj, ok := decodeFirst([]string{m[1]}); ok {
			return obj, true
		}
	}

	bare := regexp.MustCompile(fmt.Sprintf(`(?is)%s\s*:\s*\{`, labelQ))
	if loc := bare.FindStringIndex(text); loc != nil {
		if c, ok := balancedObject(text[loc[0]:]); ok {
			if obj, ok := decodeFirst([]string{c}); ok {
				return obj, true
			}
		}
	}

	return First(text)
}

// balancedObject walks the text tracking brace depth and returns the first
// complete top-level {...} region.
func balancedObject(text string) (string, bool) {
	depth := 0
	start := -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start >= 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func decodeFirst(candidates []string) (Object, bool) {
	for _, c := range candidates {
		var obj Object
		if err := json.Unmarshal([]byte(c), &obj); err == nil {
			return obj, true
		}
	}
	return nil, false
}
