// Package llm provides LLM completion and embedding services using langchaingo.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput indicates the model replied, but the reply could not be
// parsed into the expected structure. Distinguish from transport errors with
// errors.Is: a malformed reply is a model problem, not a connectivity problem.
var ErrMalformedOutput = errors.New("malformed model output")

// Completion is the text-generation collaborator used by the NLU pipeline and
// the response generator. Implementations must be safe for concurrent use.
type Completion interface {
	// GenerateWithSystem generates text from a system prompt and a user prompt.
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DecodeJSON extracts the first JSON object from raw model output and decodes
// it into v. Models frequently wrap JSON in code fences or prose; both are
// stripped before decoding. Returns ErrMalformedOutput (wrapped) when no
// parseable object is found.
func DecodeJSON(raw string, v any) error {
	payload := extractJSONObject(raw)
	if payload == "" {
		return fmt.Errorf("%w: no JSON object in %q", ErrMalformedOutput, truncate(raw, 120))
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// extractJSONObject returns the first balanced {...} block in s, or "".
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)

	// Strip markdown code fences if present
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
