// candidates.go - Shared decoding of provider guess payloads

package ai

import (
	"encoding/json"
	"fmt"

	"github.com/bosocmputer/captcha_ocr_ensemble/internal/processor"
)

// guessPayload covers both response shapes the prompts ask for: a single
// "text" field, or a ranked "candidates" list when hedging with top-k guesses.
type guessPayload struct {
	Text       string   `json:"text"`
	Candidates []string `json:"candidates"`
}

// parseCandidates decodes the structured payload (already run through
// ExtractJSON), normalizes every guess and drops the ones that normalize to
// empty. Duplicates are collapsed keeping the first (highest-ranked)
// occurrence. Zero surviving candidates is an error, not a silent omission.
func parseCandidates(jsonStr string) ([]string, error) {
	var payload guessPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode guess payload: %w", err)
	}

	raw := payload.Candidates
	if len(raw) == 0 {
		if payload.Text == "" {
			return nil, fmt.Errorf("response has neither \"text\" nor \"candidates\" field")
		}
		raw = []string{payload.Text}
	}

	seen := make(map[string]bool, len(raw))
	candidates := make([]string, 0, len(raw))
	for _, guess := range raw {
		clean := processor.Normalize(guess)
		if clean == "" || seen[clean] {
			continue
		}
		seen[clean] = true
		candidates = append(candidates, clean)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no usable candidates after normalization")
	}
	return candidates, nil
}
