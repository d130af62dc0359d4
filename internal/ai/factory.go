// factory.go - Builds the ordered provider ensemble from configuration

package ai

import (
	"fmt"
	"log"
	"strings"
)

// BuildProviders turns the ordered model list into the provider ensemble.
// List order is preserved: it is the tie-break priority for voting.
// Bare "gemini-*" model ids route to the direct Gemini SDK variant when a
// Gemini key is configured; everything else (including "google/gemini-..."
// ids, which are OpenRouter-hosted) goes through the chat-completions client.
func BuildProviders(opts ProviderOptions) ([]Provider, error) {
	if opts.APIKey == "" && opts.GeminiAPIKey == "" {
		return nil, fmt.Errorf("no provider credential configured")
	}
	if len(opts.Models) == 0 {
		return nil, fmt.Errorf("no models configured")
	}
	if opts.TopK < 1 {
		opts.TopK = 1
	}

	providers := make([]Provider, 0, len(opts.Models))
	for _, model := range opts.Models {
		switch {
		case strings.HasPrefix(model, "gemini-") && opts.GeminiAPIKey != "":
			log.Printf("🔵 Provider registered: %s (gemini sdk)", model)
			providers = append(providers, NewGeminiProvider(opts.GeminiAPIKey, model, opts.TopK))

		case opts.APIKey != "":
			log.Printf("🔷 Provider registered: %s (openrouter)", model)
			providers = append(providers, NewOpenRouterProvider(opts.APIKey, model, opts.BaseURL, opts.Referer, opts.Title, opts.TopK))

		default:
			return nil, fmt.Errorf("model %q requires OPENROUTER_API_KEY", model)
		}
	}
	return providers, nil
}
