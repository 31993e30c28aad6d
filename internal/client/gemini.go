package client

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"inquiry-intake-service/internal/config"
)

const defaultGeminiModel = "gemini-2.5-flash-lite"

// GeminiClient calls the Gemini API for structured extraction.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// GenerateJSON sends the prompt with deterministic sampling and a JSON
// response MIME type, returning the raw response text.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
