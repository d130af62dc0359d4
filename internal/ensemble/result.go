// result.go - Data shapes flowing between dispatcher, resolver and callers

package ensemble

// ProviderResult is the outcome of one provider invocation: either an ordered
// list of normalized candidates, or a failure/skip record. Exactly one per
// configured provider per recognition call.
type ProviderResult struct {
	Provider   string   `json:"provider"`
	Text       string   `json:"text,omitempty"`       // top-ranked candidate, convenience
	Candidates []string `json:"candidates,omitempty"` // ranked, normalized, deduplicated
	Error      string   `json:"error,omitempty"`
	Skipped    bool     `json:"skipped,omitempty"` // cancelled by early consensus, not a failure
	DurationMS int64    `json:"duration_ms"`
}

// OK reports whether this result carries at least one usable candidate
func (r ProviderResult) OK() bool {
	return r.Error == "" && !r.Skipped && len(r.Candidates) > 0
}

// Result is the terminal output of one recognition call: the winning text
// (nil when no provider produced a usable candidate) plus every provider's
// detail in configured priority order.
type Result struct {
	FinalText *string          `json:"final_text"`
	Details   []ProviderResult `json:"details"`
}
