package ai

import "strings"

// extractJSON returns the span from the first '{' to the last '}' in s.
// Model output routinely wraps the requested JSON object in prose or
// markdown fences; everything outside the braces is discarded.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
