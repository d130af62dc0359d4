// dispatcher.go - Concurrent fan-out of one captcha to the provider ensemble

package ensemble

import (
	"context"
	"errors"
	"time"

	"github.com/bosocmputer/captcha_ocr_ensemble/internal/ai"
	"github.com/bosocmputer/captcha_ocr_ensemble/internal/common"
)

// ConsensusThreshold is the number of distinct providers that must agree on
// the same normalized candidate before fast mode finalizes early.
const ConsensusThreshold = 2

// Dispatcher fans one image out to every configured provider concurrently.
// The provider slice is frozen at construction; its order is the reporting
// and tie-break priority order.
type Dispatcher struct {
	providers []ai.Provider
	fastMode  bool
}

// NewDispatcher creates a dispatcher over an ordered provider ensemble
func NewDispatcher(providers []ai.Provider, fastMode bool) *Dispatcher {
	return &Dispatcher{
		providers: providers,
		fastMode:  fastMode,
	}
}

type settledResult struct {
	index  int
	result ProviderResult
}

// Dispatch invokes every provider at once and resolves a single decision.
//
// Exhaustive mode waits for all providers to settle and hands the full
// collection to Vote. Fast mode merges each settling result into a running
// tally; as soon as any candidate holds ConsensusThreshold provider votes the
// decision is taken, the shared context is cancelled, and everything still in
// flight (or arriving afterwards) is recorded as skipped rather than counted.
//
// All merging happens in this single goroutine, so the tally has exactly one
// writer and the decision is taken exactly once.
func (d *Dispatcher) Dispatch(ctx context.Context, reqCtx *common.RequestContext, img ai.Image) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	settled := make(chan settledResult, len(d.providers))
	for i, p := range d.providers {
		go func(index int, provider ai.Provider) {
			start := time.Now()
			candidates, err := provider.Recognize(ctx, img)
			elapsed := time.Since(start).Milliseconds()

			res := ProviderResult{
				Provider:   provider.Name(),
				DurationMS: elapsed,
			}
			switch {
			case errors.Is(err, context.Canceled):
				res.Skipped = true
				res.Error = "skipped: cancelled by early consensus"
			case err != nil:
				res.Error = err.Error()
			default:
				res.Candidates = candidates
				res.Text = candidates[0]
			}
			settled <- settledResult{index: index, result: res}
		}(i, p)
	}

	results := make([]ProviderResult, len(d.providers))
	votes := make(map[string]int)
	decided := false
	var finalText string

	for range d.providers {
		sr := <-settled
		res := sr.result

		// A call that settled after the decision was already taken does not
		// get to add votes, whatever it returned; it is reported as skipped
		// like its cancelled peers.
		if decided && !res.Skipped {
			res = ProviderResult{
				Provider:   res.Provider,
				Skipped:    true,
				Error:      "skipped: consensus already reached",
				DurationMS: res.DurationMS,
			}
		}
		results[sr.index] = res

		switch {
		case res.Skipped:
			reqCtx.LogInfo("⏭️  %s skipped (%.2fs)", res.Provider, float64(res.DurationMS)/1000)
		case res.Error != "":
			reqCtx.LogWarning("%s failed (%.2fs): %s", res.Provider, float64(res.DurationMS)/1000, res.Error)
		default:
			reqCtx.LogInfo("✅ %s answered %v (%.2fs)", res.Provider, res.Candidates, float64(res.DurationMS)/1000)
		}

		if !d.fastMode || decided || !res.OK() {
			continue
		}

		// Merge this provider's (deduplicated) candidates into the tally and
		// collect everything that just crossed the threshold, in ranked order.
		reached := []string{}
		for _, c := range res.Candidates {
			votes[c]++
			if votes[c] == ConsensusThreshold {
				reached = append(reached, c)
			}
		}
		if len(reached) > 0 {
			decided = true
			finalText = pickConsensus(results, reached)
			reqCtx.LogInfo("⚡ Early consensus on %q, cancelling pending providers", finalText)
			cancel()
		}
	}

	if decided {
		return Result{FinalText: &finalText, Details: results}
	}

	text, ok := Vote(results)
	if !ok {
		return Result{FinalText: nil, Details: results}
	}
	return Result{FinalText: &text, Details: results}
}

// pickConsensus breaks the (rare) case where one settling result pushes
// several candidates over the threshold at once: provider priority decides,
// using the same nested order as the voting tie-break. results is indexed by
// priority; entries that have not settled yet are zero values and skipped.
func pickConsensus(results []ProviderResult, reached []string) string {
	if len(reached) == 1 {
		return reached[0]
	}
	set := make(map[string]bool, len(reached))
	for _, c := range reached {
		set[c] = true
	}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		for _, c := range r.Candidates {
			if set[c] {
				return c
			}
		}
	}
	return reached[0]
}
