package ensemble

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bosocmputer/captcha_ocr_ensemble/internal/ai"
	"github.com/bosocmputer/captcha_ocr_ensemble/internal/common"
)

// stubProvider settles with fixed candidates (or an error) after a delay,
// honoring cancellation like a real network call.
type stubProvider struct {
	name       string
	candidates []string
	err        error
	delay      time.Duration
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Recognize(ctx context.Context, img ai.Image) ([]string, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

var testImage = ai.Image{Data: []byte("png-bytes"), MIMEType: "image/png"}

func dispatch(t *testing.T, fastMode bool, providers ...ai.Provider) Result {
	t.Helper()
	d := NewDispatcher(providers, fastMode)
	return d.Dispatch(context.Background(), common.NewRequestContext(), testImage)
}

func TestDispatchExhaustive(t *testing.T) {
	res := dispatch(t, false,
		&stubProvider{name: "p1", candidates: []string{"ABCD"}, delay: 30 * time.Millisecond},
		&stubProvider{name: "p2", candidates: []string{"ABCD"}, delay: 10 * time.Millisecond},
		&stubProvider{name: "p3", candidates: []string{"WXYZ"}, delay: 20 * time.Millisecond},
	)
	if res.FinalText == nil || *res.FinalText != "ABCD" {
		t.Fatalf("FinalText = %v, want ABCD", res.FinalText)
	}
	if len(res.Details) != 3 {
		t.Fatalf("got %d details, want 3", len(res.Details))
	}
	for _, d := range res.Details {
		if d.Skipped {
			t.Errorf("exhaustive mode must not skip providers, %s was skipped", d.Provider)
		}
	}
}

func TestDispatchDetailsKeepPriorityOrder(t *testing.T) {
	// Completion order is reverse of configuration order
	res := dispatch(t, false,
		&stubProvider{name: "p1", candidates: []string{"AAAA"}, delay: 60 * time.Millisecond},
		&stubProvider{name: "p2", candidates: []string{"BBBB"}, delay: 30 * time.Millisecond},
		&stubProvider{name: "p3", candidates: []string{"CCCC"}, delay: 5 * time.Millisecond},
	)
	want := []string{"p1", "p2", "p3"}
	for i, d := range res.Details {
		if d.Provider != want[i] {
			t.Errorf("details[%d] = %s, want %s", i, d.Provider, want[i])
		}
	}
}

func TestDispatchAllFail(t *testing.T) {
	res := dispatch(t, false,
		&stubProvider{name: "p1", err: errors.New("chat API error (500)"), delay: time.Millisecond},
		&stubProvider{name: "p2", err: errors.New("connection refused"), delay: time.Millisecond},
		&stubProvider{name: "p3", err: errors.New("no usable candidates"), delay: time.Millisecond},
	)
	if res.FinalText != nil {
		t.Fatalf("FinalText = %q, want nil", *res.FinalText)
	}
	if len(res.Details) != 3 {
		t.Fatalf("got %d details, want 3", len(res.Details))
	}
	for _, d := range res.Details {
		if d.Error == "" || d.Skipped {
			t.Errorf("%s: expected a recorded failure, got %+v", d.Provider, d)
		}
	}
}

func TestDispatchFailureDoesNotAbortSiblings(t *testing.T) {
	res := dispatch(t, false,
		&stubProvider{name: "p1", err: errors.New("boom"), delay: time.Millisecond},
		&stubProvider{name: "p2", candidates: []string{"HW7Q"}, delay: 40 * time.Millisecond},
	)
	if res.FinalText == nil || *res.FinalText != "HW7Q" {
		t.Fatalf("FinalText = %v, want HW7Q", res.FinalText)
	}
	if res.Details[0].Error == "" {
		t.Error("p1 failure should be recorded")
	}
	if !res.Details[1].OK() {
		t.Errorf("p2 should have succeeded, got %+v", res.Details[1])
	}
}

func TestDispatchFastModeEarlyConsensus(t *testing.T) {
	start := time.Now()
	res := dispatch(t, true,
		&stubProvider{name: "p1", candidates: []string{"HWTUV"}, delay: 10 * time.Millisecond},
		&stubProvider{name: "p2", candidates: []string{"HWTUV"}, delay: 40 * time.Millisecond},
		&stubProvider{name: "p3", candidates: []string{"XXXXX"}, delay: 5 * time.Second},
	)
	elapsed := time.Since(start)

	if res.FinalText == nil || *res.FinalText != "HWTUV" {
		t.Fatalf("FinalText = %v, want HWTUV", res.FinalText)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("fast mode took %v, expected finalization well before the slow provider", elapsed)
	}
	if !res.Details[2].Skipped {
		t.Errorf("p3 should be skipped, got %+v", res.Details[2])
	}
	if res.Details[2].Candidates != nil {
		t.Errorf("skipped provider must not contribute candidates: %+v", res.Details[2])
	}
}

func TestDispatchFastModeLateArrivalIsSkipped(t *testing.T) {
	// p3 ignores cancellation and completes anyway; its answer must still be
	// recorded as skipped, not counted as an extra vote.
	res := dispatch(t, true,
		&stubProvider{name: "p1", candidates: []string{"ABCD"}, delay: 5 * time.Millisecond},
		&stubProvider{name: "p2", candidates: []string{"ABCD"}, delay: 10 * time.Millisecond},
		&uncancellableProvider{name: "p3", candidates: []string{"ABCD"}, delay: 400 * time.Millisecond},
	)
	if res.FinalText == nil || *res.FinalText != "ABCD" {
		t.Fatalf("FinalText = %v, want ABCD", res.FinalText)
	}
	if !res.Details[2].Skipped {
		t.Errorf("late p3 result should be marked skipped, got %+v", res.Details[2])
	}
}

// uncancellableProvider sleeps through cancellation, simulating a transport
// that cannot abort mid-flight.
type uncancellableProvider struct {
	name       string
	candidates []string
	delay      time.Duration
}

func (u *uncancellableProvider) Name() string { return u.name }

func (u *uncancellableProvider) Recognize(ctx context.Context, img ai.Image) ([]string, error) {
	time.Sleep(u.delay)
	return u.candidates, nil
}

func TestDispatchFastModeNoConsensusFallsThrough(t *testing.T) {
	res := dispatch(t, true,
		&stubProvider{name: "p1", candidates: []string{"ABCD"}, delay: 5 * time.Millisecond},
		&stubProvider{name: "p2", candidates: []string{"WXYZ"}, delay: 10 * time.Millisecond},
		&stubProvider{name: "p3", candidates: []string{"QRST"}, delay: 15 * time.Millisecond},
	)
	// Three-way tie resolved by priority, nothing skipped
	if res.FinalText == nil || *res.FinalText != "ABCD" {
		t.Fatalf("FinalText = %v, want ABCD", res.FinalText)
	}
	for _, d := range res.Details {
		if d.Skipped {
			t.Errorf("no consensus was reached, %s must not be skipped", d.Provider)
		}
	}
}

func TestDispatchFastModeRankedGuessConsensus(t *testing.T) {
	// p1 hedges; p2's single confident answer seconds p1's top guess.
	res := dispatch(t, true,
		&stubProvider{name: "p1", candidates: []string{"ABCD", "ABCE", "ABCF"}, delay: 5 * time.Millisecond},
		&stubProvider{name: "p2", candidates: []string{"ABCD"}, delay: 15 * time.Millisecond},
		&stubProvider{name: "p3", candidates: []string{"ZZZZ"}, delay: 3 * time.Second},
	)
	if res.FinalText == nil || *res.FinalText != "ABCD" {
		t.Fatalf("FinalText = %v, want ABCD", res.FinalText)
	}
	if !res.Details[2].Skipped {
		t.Errorf("p3 should be skipped after consensus, got %+v", res.Details[2])
	}
}
