package ensemble

import "testing"

func ok(provider string, candidates ...string) ProviderResult {
	return ProviderResult{
		Provider:   provider,
		Text:       candidates[0],
		Candidates: candidates,
		DurationMS: 100,
	}
}

func failed(provider, msg string) ProviderResult {
	return ProviderResult{Provider: provider, Error: msg, DurationMS: 100}
}

func TestVoteMajority(t *testing.T) {
	results := []ProviderResult{
		ok("p1", "ABCD"),
		ok("p2", "ABCD"),
		ok("p3", "WXYZ"),
	}
	text, decided := Vote(results)
	if !decided || text != "ABCD" {
		t.Fatalf("Vote = (%q, %v), want (ABCD, true)", text, decided)
	}
}

func TestVoteTieBreakByPriority(t *testing.T) {
	results := []ProviderResult{
		ok("p1", "ABCD"),
		ok("p2", "WXYZ"),
		ok("p3", "QRST"),
	}
	text, decided := Vote(results)
	if !decided || text != "ABCD" {
		t.Fatalf("Vote = (%q, %v), want (ABCD, true): priority order must break the tie", text, decided)
	}
}

func TestVoteRankedCandidates(t *testing.T) {
	// One provider hedges with three guesses, another independently confirms
	// the top one: ABCD=2, ABCE=1, ABCF=1.
	results := []ProviderResult{
		ok("p1", "ABCD", "ABCE", "ABCF"),
		ok("p2", "ABCD"),
	}
	text, decided := Vote(results)
	if !decided || text != "ABCD" {
		t.Fatalf("Vote = (%q, %v), want (ABCD, true)", text, decided)
	}
}

func TestVoteAllFailed(t *testing.T) {
	results := []ProviderResult{
		failed("p1", "chat API error (502): bad gateway"),
		failed("p2", "failed to send request: connection refused"),
		failed("p3", "no usable candidates after normalization"),
	}
	if text, decided := Vote(results); decided {
		t.Fatalf("Vote on all-failed results decided %q, want no decision", text)
	}
}

func TestVoteEmpty(t *testing.T) {
	if text, decided := Vote(nil); decided {
		t.Fatalf("Vote(nil) decided %q, want no decision", text)
	}
}

func TestVoteSkippedResultsDoNotCount(t *testing.T) {
	results := []ProviderResult{
		{Provider: "p1", Skipped: true, Error: "skipped: cancelled by early consensus"},
		ok("p2", "WXYZ"),
	}
	text, decided := Vote(results)
	if !decided || text != "WXYZ" {
		t.Fatalf("Vote = (%q, %v), want (WXYZ, true)", text, decided)
	}
}

func TestVoteWinnerIsMemberOfTally(t *testing.T) {
	results := []ProviderResult{
		ok("p1", "AAAA", "BBBB"),
		ok("p2", "CCCC"),
		ok("p3", "BBBB", "DDDD"),
	}
	text, decided := Vote(results)
	if !decided {
		t.Fatal("expected a decision")
	}
	member := false
	for _, r := range results {
		for _, c := range r.Candidates {
			if c == text {
				member = true
			}
		}
	}
	if !member {
		t.Fatalf("winner %q is not among the candidates", text)
	}
	if text != "BBBB" {
		t.Fatalf("Vote = %q, want BBBB (only candidate with 2 votes)", text)
	}
}

func TestVoteDeterministic(t *testing.T) {
	results := []ProviderResult{
		ok("p1", "ZZZZ"),
		ok("p2", "AAAA"),
		ok("p3", "MMMM"),
	}
	first, _ := Vote(results)
	for i := 0; i < 100; i++ {
		if got, _ := Vote(results); got != first {
			t.Fatalf("run %d: Vote = %q, previously %q", i, got, first)
		}
	}
}
