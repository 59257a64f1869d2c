package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/models"
	"github.com/FACorreiaa/go-travelguide/internal/app/observability/metrics"
)

const (
	DefaultMaxTokens   int32   = 3000
	DefaultTemperature float32 = 0.7
)

// DefaultModels is the fallback order used when no model list is configured.
var DefaultModels = []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash"}

// CompletionRequest is a single chat completion call against one model.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int32
	Temperature float32
}

// Completer performs one remote completion.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Service drafts itineraries.
type Service interface {
	Generate(ctx context.Context, system, user string) (models.GeneratedPlan, error)
}

// Config for NewPlanner. Zero MaxTokens and nil Temperature select the
// defaults; a Temperature of 0 is kept.
type Config struct {
	Models      []string
	MaxTokens   int32
	Temperature *float32
}

// Planner tries each configured model once, in order, and returns the first
// non-empty completion.
type Planner struct {
	completer   Completer
	models      []string
	maxTokens   int32
	temperature float32
	logger      *zap.Logger
}

var _ Service = (*Planner)(nil)

func NewPlanner(completer Completer, cfg Config, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	modelList := cfg.Models
	if len(modelList) == 0 {
		modelList = DefaultModels
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return &Planner{
		completer:   completer,
		models:      append([]string(nil), modelList...),
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Models returns the fallback order.
func (p *Planner) Models() []string {
	return append([]string(nil), p.models...)
}

func (p *Planner) Generate(ctx context.Context, system, user string) (models.GeneratedPlan, error) {
	ctx, span := otel.Tracer("Planner").Start(ctx, "Generate", trace.WithAttributes(
		attribute.Int("prompt.length", len(user)),
		attribute.Int("models.count", len(p.models)),
	))
	defer span.End()

	l := p.logger.With(zap.String("method", "Generate"))
	m := metrics.Get()

	var attemptErrs []error
	for i, model := range p.models {
		text, err := p.completer.Complete(ctx, CompletionRequest{
			Model:       model,
			System:      system,
			User:        user,
			MaxTokens:   p.maxTokens,
			Temperature: p.temperature,
		})
		if err == nil && strings.TrimSpace(text) == "" {
			err = models.ErrEmptyCompletion
		}
		if err != nil {
			l.Warn("Model attempt failed, falling back",
				zap.String("model", model),
				zap.Int("attempt", i+1),
				zap.Error(err))
			m.LLMAttemptsTotal.Add(ctx, 1, metric.WithAttributes(
				attribute.String("model", model),
				attribute.String("outcome", "error"),
			))
			attemptErrs = append(attemptErrs, fmt.Errorf("%s: %w", model, err))
			continue
		}

		m.LLMAttemptsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("model", model),
			attribute.String("outcome", "success"),
		))
		l.Info("Itinerary generated",
			zap.String("model", model),
			zap.Int("attempt", i+1),
			zap.Int("response_length", len(text)))
		span.SetAttributes(attribute.String("model.used", model))
		span.SetStatus(codes.Ok, "Itinerary generated")

		return models.GeneratedPlan{
			Markdown: strings.TrimSpace(text),
			Model:    model,
		}, nil
	}

	err := fmt.Errorf("%w: %w", models.ErrAllModelsExhausted, errors.Join(attemptErrs...))
	l.Error("Every model failed", zap.Strings("models", p.models), zap.Error(err))
	span.RecordError(err)
	span.SetStatus(codes.Error, "All models exhausted")
	return models.GeneratedPlan{}, err
}
