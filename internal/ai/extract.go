// extract.go - Recovery parser for JSON embedded in noisy model output

package ai

import "strings"

// ExtractJSON pulls the structured payload out of a model reply. Models
// routinely wrap the JSON in markdown code fences or surround it with
// explanatory prose; the recovery strategy is to strip known fencing and then
// slice from the first '{' to the last '}'. If no object boundary exists the
// raw (trimmed) text is returned and left to the JSON decoder to reject.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
