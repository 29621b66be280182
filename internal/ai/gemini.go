package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAnswerer answers open questions using Google's Gemini API.
type GeminiAnswerer struct {
	client    *genai.Client
	modelID   string
	maxTokens int32
}

// NewGeminiAnswerer creates a Gemini-backed answerer.
func NewGeminiAnswerer(ctx context.Context, apiKey, modelID string, maxTokens int32) (*GeminiAnswerer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ai: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	if maxTokens <= 0 {
		maxTokens = 512
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ai: failed to create gemini client: %w", err)
	}

	return &GeminiAnswerer{
		client:    client,
		modelID:   modelID,
		maxTokens: maxTokens,
	}, nil
}

// Answer sends the question to Gemini and returns the reply text.
func (c *GeminiAnswerer) Answer(ctx context.Context, userID, question string) (string, error) {
	model := c.client.GenerativeModel(c.modelID)
	model.SetMaxOutputTokens(c.maxTokens)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))

	resp, err := model.GenerateContent(ctx, genai.Text(question))
	if err != nil {
		return "", fmt.Errorf("ai: gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("ai: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("ai: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	reply := strings.TrimSpace(text.String())
	if reply == "" {
		return "", errors.New("ai: gemini returned no text parts")
	}
	return reply, nil
}

// Close releases resources held by the Gemini client.
func (c *GeminiAnswerer) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
