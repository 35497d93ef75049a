package analysis

import (
	"strings"

	"github.com/tidwall/gjson"
)

// StripCodeFence removes a surrounding ``` fence and its language tag.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// extractJSON returns the JSON payload of an LLM reply, tolerating a fence or
// surrounding prose. ok is false when no valid JSON document is found.
func extractJSON(text string, open, close byte) (string, bool) {
	s := StripCodeFence(text)
	if s != "" && s[0] == open && gjson.Valid(s) {
		return s, true
	}
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return "", false
	}
	candidate := s[start : end+1]
	if !gjson.Valid(candidate) {
		return "", false
	}
	return candidate, true
}
