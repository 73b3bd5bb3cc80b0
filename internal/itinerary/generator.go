package itinerary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/trailday/internal/logger"
	"github.com/pfrederiksen/trailday/internal/trail"
)

// Generation defaults.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultMaxTokens   = 1500
	DefaultTemperature = 0.7
)

// Generator produces itinerary text for a trail.
type Generator struct {
	client      ChatCompleter
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewGenerator creates a Generator with the default model settings.
func NewGenerator(client ChatCompleter) *Generator {
	return &Generator{
		client:      client,
		Model:       DefaultModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

// Generate asks the model for a day plan around rec. An empty answer is an
// error so callers never store a blank itinerary.
func (g *Generator) Generate(ctx context.Context, rec *trail.Record, preferences string) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("no trail data: scrape a hike first")
	}

	req := ChatRequest{
		Model: g.Model,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: BuildPrompt(Request{Trail: rec, Preferences: preferences})},
		},
		MaxTokens:   g.MaxTokens,
		Temperature: g.Temperature,
	}

	start := time.Now()
	text, err := g.client.Complete(ctx, req)
	logger.RecordTiming("llm.generate", time.Since(start))
	if err != nil {
		logger.IncrCounter("llm.errors")
		return "", fmt.Errorf("generating itinerary: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("generating itinerary: model returned no text")
	}

	logger.Info("Generated itinerary", logger.Fields{
		"trail": rec.DisplayName(),
		"model": g.Model,
		"chars": len(text),
	})
	return text, nil
}
