package ai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoAnalysis is returned when no parseable analysis can be recovered from
// the provider output
var ErrNoAnalysis = errors.New("no parseable analysis in provider output")

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fencedRe     = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// ParseAnalysis recovers a SymptomAnalysis from raw provider output. Models
// occasionally wrap the JSON in markdown fences or prose despite json_object
// mode, so parsing falls back through progressively looser extractions:
// the whole payload, a fenced code block, then the first brace-delimited
// substring. When nothing parses the caller reports a malformed response;
// a partial result is never fabricated.
func ParseAnalysis(raw string) (*SymptomAnalysis, error) {
	candidates := []string{strings.TrimSpace(raw)}

	if m := fencedJSONRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if m := fencedRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if sub := braceSubstring(raw); sub != "" {
		candidates = append(candidates, sub)
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		var analysis SymptomAnalysis
		if err := json.Unmarshal([]byte(candidate), &analysis); err == nil {
			return &analysis, nil
		}
	}

	return nil, ErrNoAnalysis
}

// braceSubstring returns the substring from the first '{' to the last '}'
func braceSubstring(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
