package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

const maxTokens = 2048

// CompletionClient is the port to the external AI provider. It takes a data
// URL for the letter image and returns the raw model reply.
type CompletionClient interface {
	Complete(ctx context.Context, imageDataURL string) (string, error)
}

// OpenRouterClient calls the OpenRouter chat-completion API through the
// OpenAI-compatible client.
type OpenRouterClient struct {
	client *openai.Client
	model  string
}

// NewOpenRouterClient builds a client for the given credential and model.
// siteURL and siteName are sent as OpenRouter attribution headers.
func NewOpenRouterClient(apiKey, model, siteURL, siteName string) *OpenRouterClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = openRouterBaseURL
	cfg.HTTPClient = &http.Client{
		Timeout: 2 * time.Minute,
		Transport: &attributionTransport{
			base:     http.DefaultTransport,
			siteURL:  siteURL,
			siteName: siteName,
		},
	}
	return &OpenRouterClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete sends the fixed letter-analysis prompt together with the image and
// returns the model's reply text.
func (c *OpenRouterClient) Complete(ctx context.Context, imageDataURL string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: userPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageDataURL,
						},
					},
				},
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// attributionTransport adds the OpenRouter attribution headers to every
// outbound request.
type attributionTransport struct {
	base     http.RoundTripper
	siteURL  string
	siteName string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL != "" {
		req.Header.Set("HTTP-Referer", t.siteURL)
	}
	if t.siteName != "" {
		req.Header.Set("X-Title", t.siteName)
	}
	return t.base.RoundTrip(req)
}
