package planner

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// GeminiCompleter sends completions to the Gemini API.
type GeminiCompleter struct {
	client *genai.Client
}

var _ Completer = (*GeminiCompleter)(nil)

func NewGeminiCompleter(client *genai.Client) *GeminiCompleter {
	return &GeminiCompleter{client: client}
}

func (g *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "Complete", trace.WithAttributes(
		attribute.String("model", req.Model),
		attribute.Int("prompt.length", len(req.User)),
	))
	defer span.End()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		MaxOutputTokens:   req.MaxTokens,
		Temperature:       genai.Ptr(req.Temperature),
	}

	result, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return text, nil
}
