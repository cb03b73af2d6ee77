package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"wayfarer/internal/config"
)

// GeminiModel implements ChatModel using Google's Gemini models.
type GeminiModel struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiModel initializes a new Gemini client.
// The API key should come from configuration, not read here.
func NewGeminiModel(ctx context.Context, cfg config.AIConfig) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)

	// Structured output is elicited through the prompt (labeled fenced JSON),
	// not through a forced MIME type: the extraction cascade needs to see the
	// reply exactly as the model wrote it.
	model.SetTemperature(cfg.Temperature)

	return &GeminiModel{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (m *GeminiModel) Close() {
	m.client.Close()
}

// Send performs one generation call and returns the raw reply text.
func (m *GeminiModel) Send(ctx context.Context, prompt string) (string, error) {
	resp, err := m.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			reply.WriteString(string(txt))
		}
	}

	return reply.String(), nil
}
