// recognizer.go - Public entry point: image in, ensemble decision out

package recognizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bosocmputer/captcha_ocr_ensemble/configs"
	"github.com/bosocmputer/captcha_ocr_ensemble/internal/ai"
	"github.com/bosocmputer/captcha_ocr_ensemble/internal/common"
	"github.com/bosocmputer/captcha_ocr_ensemble/internal/ensemble"
)

// Options configures one Recognizer instance. Immutable after New.
type Options struct {
	APIKey         string   // OpenRouter credential (bearer)
	GeminiAPIKey   string   // optional direct-Gemini credential (query)
	Models         []string // ordered: index 0 = highest tie-break priority
	BaseURL        string
	FastMode       bool // finalize as soon as two providers agree
	CandidateCount int  // top-k guesses per provider, 1 = single guess
	Referer        string
	Title          string
}

// Recognizer fans captcha images out to a fixed provider ensemble and
// resolves a single decision by vote.
type Recognizer struct {
	dispatcher *ensemble.Dispatcher
}

// New validates the configuration and freezes the provider set.
// A missing credential fails here, loudly, not in the middle of a call.
func New(opts Options) (*Recognizer, error) {
	if opts.APIKey == "" && opts.GeminiAPIKey == "" {
		return nil, fmt.Errorf("recognizer requires an API key")
	}
	providers, err := ai.BuildProviders(ai.ProviderOptions{
		APIKey:       opts.APIKey,
		GeminiAPIKey: opts.GeminiAPIKey,
		BaseURL:      opts.BaseURL,
		Models:       opts.Models,
		TopK:         opts.CandidateCount,
		Referer:      opts.Referer,
		Title:        opts.Title,
	})
	if err != nil {
		return nil, err
	}
	return &Recognizer{dispatcher: ensemble.NewDispatcher(providers, opts.FastMode)}, nil
}

// NewFromConfig builds a Recognizer from the loaded environment configuration
func NewFromConfig() (*Recognizer, error) {
	return New(Options{
		APIKey:         configs.OPENROUTER_API_KEY,
		GeminiAPIKey:   configs.GEMINI_API_KEY,
		Models:         configs.MODELS,
		BaseURL:        configs.OPENROUTER_BASE_URL,
		FastMode:       configs.FAST_MODE,
		CandidateCount: configs.CANDIDATE_COUNT,
		Referer:        configs.APP_REFERER,
		Title:          configs.APP_TITLE,
	})
}

// newWithProviders wires a prebuilt ensemble; used by tests
func newWithProviders(providers []ai.Provider, fastMode bool) *Recognizer {
	return &Recognizer{dispatcher: ensemble.NewDispatcher(providers, fastMode)}
}

// Recognize accepts either a file path (string) or an in-memory image payload
// ([]byte) and returns the ensemble decision with full per-provider detail.
func (r *Recognizer) Recognize(ctx context.Context, input interface{}) (*ensemble.Result, error) {
	switch v := input.(type) {
	case []byte:
		return r.RecognizeBytes(ctx, v)
	case string:
		return r.RecognizeFile(ctx, v)
	default:
		return nil, fmt.Errorf("unsupported input type %T: want a file path or image bytes", input)
	}
}

// RecognizeFile reads the image from disk, inferring the media type from the
// file extension.
func (r *Recognizer) RecognizeFile(ctx context.Context, path string) (*ensemble.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return r.run(ctx, ai.Image{Data: data, MIMEType: MIMETypeForPath(path)})
}

// RecognizeBytes recognizes an in-memory payload. With no filename to go by,
// the payload is tagged as PNG, the format captcha endpoints serve by default.
func (r *Recognizer) RecognizeBytes(ctx context.Context, data []byte) (*ensemble.Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	return r.run(ctx, ai.Image{Data: data, MIMEType: "image/png"})
}

func (r *Recognizer) run(ctx context.Context, img ai.Image) (*ensemble.Result, error) {
	reqCtx := common.NewRequestContext()

	reqCtx.StartStep("dispatch_providers")
	result := r.dispatcher.Dispatch(ctx, reqCtx, img)
	reqCtx.EndStep("success", nil)

	if result.FinalText != nil {
		reqCtx.LogInfo("🎯 Final decision: %q", *result.FinalText)
	} else {
		reqCtx.LogWarning("No decision: every provider failed or produced nothing usable")
	}
	reqCtx.GetSummary()

	return &result, nil
}

// MIMETypeForPath maps a file extension to one of the two supported media
// types. PNG is the default.
func MIMETypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}
