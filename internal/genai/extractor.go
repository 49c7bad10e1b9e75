// This file contains the Gemini-based entity extractors used by query
// refinement: book title extraction and slot booking request extraction.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// SlotRequest holds the entities extracted from a slot booking utterance.
type SlotRequest struct {
	FacultyName string `json:"faculty_name"`
	Date        string `json:"date"`
}

// Extractor extracts structured entities from free-form utterances.
type Extractor struct {
	client *genai.Client
	model  string
}

// NewExtractor creates a Gemini-based entity extractor.
// Returns nil if apiKey is empty (extraction disabled, callers fall back
// to the raw utterance).
func NewExtractor(ctx context.Context, apiKey, model string) (*Extractor, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: extraction disabled when no API key
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Extractor{
		client: client,
		model:  model,
	}, nil
}

// IsEnabled returns true if the extractor is usable.
func (e *Extractor) IsEnabled() bool {
	return e != nil && e.client != nil
}

// ExtractBookTitle extracts the book title mentioned in the utterance.
// Returns an empty string when no title can be identified.
func (e *Extractor) ExtractBookTitle(ctx context.Context, utterance string) (string, error) {
	if e == nil || e.client == nil {
		return "", fmt.Errorf("extractor not enabled")
	}

	prompt := bookTitlePrompt(utterance)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.1), // Low temperature for consistent extraction
		MaxOutputTokens: 64,
	}

	start := time.Now()
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "book title extraction API call failed",
			"model", e.model,
			"input_length", len(utterance),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	title := strings.TrimSpace(responseText(resp))
	title = strings.Trim(title, `"'`)
	if strings.EqualFold(title, "NONE") {
		title = ""
	}

	slog.DebugContext(ctx, "book title extraction completed",
		"model", e.model,
		"duration_ms", duration.Milliseconds(),
		"title_length", len(title))

	return title, nil
}

// ExtractSlotRequest extracts the faculty name and date from a slot
// booking utterance. Either field may be empty when the utterance does
// not mention it.
func (e *Extractor) ExtractSlotRequest(ctx context.Context, utterance string) (*SlotRequest, error) {
	if e == nil || e.client == nil {
		return nil, fmt.Errorf("extractor not enabled")
	}

	prompt := slotRequestPrompt(utterance)

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		MaxOutputTokens:  128,
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "slot request extraction API call failed",
			"model", e.model,
			"input_length", len(utterance),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, fmt.Errorf("generate content failed: %w", err)
	}

	raw := strings.TrimSpace(responseText(resp))
	raw = stripCodeFence(raw)

	var req SlotRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}

	req.FacultyName = strings.TrimSpace(req.FacultyName)
	req.Date = strings.TrimSpace(req.Date)

	slog.DebugContext(ctx, "slot request extraction completed",
		"model", e.model,
		"duration_ms", duration.Milliseconds(),
		"has_faculty", req.FacultyName != "",
		"has_date", req.Date != "")

	return &req, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models emit even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Close releases resources held by the extractor.
// Safe to call on nil receiver.
func (e *Extractor) Close() error {
	if e == nil {
		return nil
	}
	// Note: genai.Client does not require explicit cleanup in current SDK version
	return nil
}
