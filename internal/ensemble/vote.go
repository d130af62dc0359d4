// vote.go - Deterministic majority vote over provider candidates

package ensemble

// Vote aggregates every candidate from every successful provider into one
// tally and picks the winner. Pure function of its input: same results, same
// decision, always.
//
// Rules:
//  1. each distinct candidate counts once per provider that produced it
//  2. empty tally -> no decision
//  3. unique maximum -> that candidate wins
//  4. tie at the maximum -> walk providers in configured priority order (the
//     results slice is already in that order), each provider's candidates in
//     its own ranked order; the first candidate belonging to the tied set wins
//  5. if no provider's list intersects the tied set (defensive; cannot happen
//     with a tally built from those same lists) -> first tied candidate in
//     discovery order
func Vote(results []ProviderResult) (string, bool) {
	tally := make(map[string]int)
	discovery := []string{}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		for _, c := range r.Candidates {
			if tally[c] == 0 {
				discovery = append(discovery, c)
			}
			tally[c]++
		}
	}

	if len(tally) == 0 {
		return "", false
	}

	max := 0
	for _, n := range tally {
		if n > max {
			max = n
		}
	}

	tied := make(map[string]bool)
	tiedCount := 0
	for c, n := range tally {
		if n == max {
			tied[c] = true
			tiedCount++
		}
	}

	if tiedCount == 1 {
		for c := range tied {
			return c, true
		}
	}

	// Priority tie-break
	for _, r := range results {
		if !r.OK() {
			continue
		}
		for _, c := range r.Candidates {
			if tied[c] {
				return c, true
			}
		}
	}

	// Defensive fallback
	for _, c := range discovery {
		if tied[c] {
			return c, true
		}
	}
	return "", false
}
