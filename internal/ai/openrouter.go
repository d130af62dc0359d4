// openrouter.go - OpenRouter chat-completions client for captcha recognition

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bosocmputer/captcha_ocr_ensemble/internal/ratelimit"
)

// OpenRouterProvider implements Provider for any vision model hosted behind
// an OpenRouter-compatible chat-completions endpoint.
type OpenRouterProvider struct {
	apiKey    string
	modelName string
	baseURL   string
	referer   string
	title     string
	topK      int
	client    *http.Client
}

// NewOpenRouterProvider creates a provider for one hosted model.
// No client timeout is set here: each recognition call carries its own
// context, and fast mode cancels through it.
func NewOpenRouterProvider(apiKey, modelName, baseURL, referer, title string, topK int) *OpenRouterProvider {
	return &OpenRouterProvider{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   baseURL,
		referer:   referer,
		title:     title,
		topK:      topK,
		client:    &http.Client{},
	}
}

// Name returns the model identifier (e.g. "qwen/qwen2.5-vl-72b-instruct")
func (p *OpenRouterProvider) Name() string {
	return p.modelName
}

// OpenRouter chat-completions request/response structures
type chatContentPart struct {
	Type     string        `json:"type"` // "text" or "image_url"
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"` // base64 data URL
}

type chatMessage struct {
	Role    string            `json:"role"`
	Content []chatContentPart `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"` // "json_object"
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Recognize submits the captcha image and parses the model's guesses
func (p *OpenRouterProvider) Recognize(ctx context.Context, img Image) ([]string, error) {
	// Respect the shared rate limit before going out; a cancelled wait means
	// early consensus was reached and this call is skipped.
	if err := ratelimit.Wait(ctx); err != nil {
		return nil, err
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Data))

	request := chatRequest{
		Model: p.modelName,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []chatContentPart{
					{Type: "text", Text: GetCaptchaTopKPrompt(p.topK)},
					{Type: "image_url", ImageURL: &chatImageURL{URL: dataURL}},
				},
			},
		},
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
	}

	content, err := p.callChatAPI(ctx, request)
	if err != nil {
		return nil, err
	}

	return parseCandidates(ExtractJSON(content))
}

// callChatAPI makes one HTTP request to the chat-completions endpoint.
// Single attempt: a failed call is final for this provider within the request.
func (p *OpenRouterProvider) callChatAPI(ctx context.Context, request chatRequest) (string, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))
	if p.referer != "" {
		req.Header.Set("HTTP-Referer", p.referer)
	}
	if p.title != "" {
		req.Header.Set("X-Title", p.title)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// Unwrap so the dispatcher sees context.Canceled on skipped calls
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp chatErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return "", fmt.Errorf("chat API error (%d): %s", resp.StatusCode, errorResp.Error.Message)
		}
		return "", fmt.Errorf("chat API error (%d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat response")
	}

	return response.Choices[0].Message.Content, nil
}

// truncate shortens error bodies so logs stay readable
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "... (truncated)"
}
