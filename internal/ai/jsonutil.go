package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Models routinely wrap JSON output in markdown fences. These patterns pull
// the payload out of ```json ... ``` or bare ``` ... ``` blocks, falling back
// to the first object or array in the raw text.
var (
	fencedObjectPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	fencedArrayPattern  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\[.*\\])\\s*```")
	bareObjectPattern   = regexp.MustCompile(`(?s)\{.*\}`)
	bareArrayPattern    = regexp.MustCompile(`(?s)\[.*\]`)
)

// DecodeJSON extracts a JSON object from model output and unmarshals it into
// v. Fails with ParseError when no valid object can be found.
func DecodeJSON(content string, v any) error {
	raw := extractJSON(content, fencedObjectPattern, bareObjectPattern)
	if raw == "" {
		return NewParseError(fmt.Errorf("no JSON object in model output"))
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return NewParseError(fmt.Errorf("invalid JSON in model output: %w", err))
	}
	return nil
}

// DecodeJSONArray is DecodeJSON for top-level arrays.
func DecodeJSONArray(content string, v any) error {
	raw := extractJSON(content, fencedArrayPattern, bareArrayPattern)
	if raw == "" {
		return NewParseError(fmt.Errorf("no JSON array in model output"))
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return NewParseError(fmt.Errorf("invalid JSON in model output: %w", err))
	}
	return nil
}

func extractJSON(content string, fenced, bare *regexp.Regexp) string {
	if matches := fenced.FindStringSubmatch(content); len(matches) > 1 {
		return matches[1]
	}
	return bare.FindString(content)
}
