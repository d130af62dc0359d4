// interface.go - Captcha provider interface for supporting multiple AI backends

package ai

import "context"

// Image is the captcha payload handed to every provider. Captured once per
// recognition request and never mutated.
type Image struct {
	Data     []byte
	MIMEType string // "image/png" or "image/jpeg"
}

// Provider defines the interface that all captcha recognition backends must
// implement. This allows us to mix backends (OpenRouter-hosted models, Gemini
// via the official SDK, etc.) behind the same contract.
type Provider interface {
	// Recognize submits the image and returns the provider's guesses as an
	// ordered list of candidates: already normalized to A-Z0-9, deduplicated,
	// ranked by the provider's own confidence, never empty on success.
	// A cancelled ctx must be surfaced as ctx.Err() so the dispatcher can
	// tell a skipped call from a real failure.
	Recognize(ctx context.Context, img Image) ([]string, error)

	// Name returns the backend identifier (the model id), used for reporting
	// and tie-break priority.
	Name() string
}

// ProviderOptions carries the shared construction parameters for providers.
type ProviderOptions struct {
	APIKey       string
	GeminiAPIKey string
	BaseURL      string
	Models       []string // ordered: index 0 = highest priority
	TopK         int      // guesses requested per provider, 1 = single guess
	Referer      string   // identification headers for OpenRouter
	Title        string
}
