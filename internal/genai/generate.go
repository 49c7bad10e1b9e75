// This file contains the Gemini text generator used by the
// retrieval-augmented answer path.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Generator produces grounded answers from retrieved context.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a Gemini-based answer generator.
// Returns nil if apiKey is empty (generation disabled).
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: generation disabled when no API key
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Generator{
		client: client,
		model:  model,
	}, nil
}

// IsEnabled returns true if the generator is usable.
func (g *Generator) IsEnabled() bool {
	return g != nil && g.client != nil
}

// Answer generates a grounded answer to the question using the supplied
// reference material.
func (g *Generator) Answer(ctx context.Context, question, referenceText string) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("generator not enabled")
	}

	prompt := answerPrompt(question, referenceText)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: 1024,
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "answer generation API call failed",
			"model", g.model,
			"question_length", len(question),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	answer := strings.TrimSpace(responseText(resp))
	if answer == "" {
		return "", fmt.Errorf("empty response from model")
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "answer generation completed",
			"model", g.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return answer, nil
}

// Close releases resources held by the generator.
// Safe to call on nil receiver.
func (g *Generator) Close() error {
	if g == nil {
		return nil
	}
	// Note: genai.Client does not require explicit cleanup in current SDK version
	return nil
}
