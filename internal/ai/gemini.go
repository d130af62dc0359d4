// gemini.go - Gemini provider variant using the official generative-ai SDK

package ai

import (
	"context"
	"fmt"

	"github.com/bosocmputer/captcha_ocr_ensemble/internal/ratelimit"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements Provider against the Gemini API directly.
// Unlike the OpenRouter path this backend authenticates with a query
// credential (handled by the SDK) instead of a bearer header, and it supports
// a declarative response schema so the model is forced into the JSON shape.
type GeminiProvider struct {
	apiKey    string
	modelName string
	topK      int
}

// NewGeminiProvider creates a direct Gemini provider for one model
func NewGeminiProvider(apiKey, modelName string, topK int) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		modelName: modelName,
		topK:      topK,
	}
}

// Name returns the model identifier (e.g. "gemini-2.0-flash")
func (p *GeminiProvider) Name() string {
	return p.modelName
}

// Recognize submits the captcha image through the Gemini SDK
func (p *GeminiProvider) Recognize(ctx context.Context, img Image) ([]string, error) {
	if err := ratelimit.Wait(ctx); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = captchaGuessSchema(p.topK)

	resp, err := model.GenerateContent(ctx,
		genai.Text(GetCaptchaTopKPrompt(p.topK)),
		genai.Blob{
			MIMEType: img.MIMEType,
			Data:     img.Data,
		},
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini API")
	}

	var jsonResponse string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			jsonResponse = string(text)
			break
		}
	}
	if jsonResponse == "" {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	// The schema usually keeps Gemini honest, but fenced output still happens
	return parseCandidates(ExtractJSON(jsonResponse))
}

// captchaGuessSchema declares the expected JSON shape: a single "text" field,
// or a ranked "candidates" list when hedging with top-k guesses.
func captchaGuessSchema(topK int) *genai.Schema {
	if topK <= 1 {
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"text": {
					Type:        genai.TypeString,
					Description: "The captcha text: uppercase letters A-Z and digits 0-9 only, 4-6 characters",
				},
			},
			Required: []string{"text"},
		}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"candidates": {
				Type:        genai.TypeArray,
				Description: "Distinct captcha readings ordered from most to least confident",
				Items: &genai.Schema{
					Type: genai.TypeString,
				},
			},
		},
		Required: []string{"candidates"},
	}
}
