package guide

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/domain/images"
	"github.com/FACorreiaa/go-travelguide/internal/app/domain/pdf"
	"github.com/FACorreiaa/go-travelguide/internal/app/domain/planner"
	"github.com/FACorreiaa/go-travelguide/internal/app/domain/prompt"
	"github.com/FACorreiaa/go-travelguide/internal/app/models"
	"github.com/FACorreiaa/go-travelguide/internal/app/observability/metrics"
)

// ImageFetcher resolves prompts to cached image files.
type ImageFetcher interface {
	Fetch(ctx context.Context, prompt, filename string) images.Result
	FetchAll(ctx context.Context, jobs []images.Job, workers int) map[string]images.Result
}

// PDFRenderer writes itinerary PDFs.
type PDFRenderer interface {
	Render(ctx context.Context, doc pdf.Document) (string, error)
}

// Service runs one guide generation.
type Service interface {
	Generate(ctx context.Context, req models.TripRequest) (*models.Guide, error)
	RenderPDF(ctx context.Context, req models.TripRequest, markdown, cityImage string) (string, error)
}

type ServiceImpl struct {
	planner      planner.Service
	fetcher      ImageFetcher
	renderer     PDFRenderer
	imageWorkers int
	logger       *zap.Logger
}

var _ Service = (*ServiceImpl)(nil)

func NewGuideService(p planner.Service, fetcher ImageFetcher, renderer PDFRenderer, imageWorkers int, logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if imageWorkers < 1 {
		imageWorkers = 1
	}
	return &ServiceImpl{
		planner:      p,
		fetcher:      fetcher,
		renderer:     renderer,
		imageWorkers: imageWorkers,
		logger:       logger,
	}
}

// NormalizeRequest trims the free-text fields, removes duplicate interests and
// checks the day range and the interest list.
func NormalizeRequest(req models.TripRequest) (models.TripRequest, error) {
	req.Destination = strings.TrimSpace(req.Destination)
	req.Constraints = strings.TrimSpace(req.Constraints)
	if req.Destination == "" {
		return req, fmt.Errorf("%w: destination is required", models.ErrValidation)
	}
	if req.NumDays < models.MinTripDays || req.NumDays > models.MaxTripDays {
		return req, fmt.Errorf("%w: days must be between %d and %d",
			models.ErrValidation, models.MinTripDays, models.MaxTripDays)
	}

	seen := make(map[string]bool, len(req.Interests))
	interests := make([]string, 0, len(req.Interests))
	for _, interest := range req.Interests {
		if !models.IsKnownInterest(interest) {
			return req, fmt.Errorf("%w: %w %q", models.ErrValidation, models.ErrUnknownInterest, interest)
		}
		if !seen[interest] {
			seen[interest] = true
			interests = append(interests, interest)
		}
	}
	req.Interests = interests
	return req, nil
}

// Generate drafts the itinerary, then fetches the city picture, then the
// interest pictures, then writes the PDF. A planner or PDF failure aborts the
// run; missing pictures do not.
func (s *ServiceImpl) Generate(ctx context.Context, req models.TripRequest) (*models.Guide, error) {
	ctx, span := otel.Tracer("GuideService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.Int("days", req.NumDays),
		attribute.Int("interests.count", len(req.Interests)),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Generate"), zap.String("destination", req.Destination))
	m := metrics.Get()

	req, err := NormalizeRequest(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request")
		return nil, err
	}

	userPrompt := prompt.BuildUserPrompt(req.Destination, req.NumDays, req.Interests, req.Constraints)
	plan, err := s.planner.Generate(ctx, prompt.SystemPrompt, userPrompt)
	if err != nil {
		l.Error("Itinerary generation failed", zap.Error(err))
		m.GuideRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "plan_failed")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary generation failed")
		return nil, fmt.Errorf("failed to generate itinerary: %w", err)
	}
	if missing := planner.MissingSections(plan.Markdown); len(missing) > 0 {
		l.Warn("Itinerary is missing sections", zap.Strings("sections", missing), zap.String("model", plan.Model))
	}

	guide := &models.Guide{
		Request:     req,
		Plan:        plan,
		GeneratedAt: time.Now().UTC(),
	}

	city := s.fetcher.Fetch(ctx, prompt.CityImagePrompt(req.Destination), images.CityKey(req.Destination))
	if city.Available() {
		guide.CityImage = city.Path
	}

	jobs := make([]images.Job, 0, len(req.Interests))
	for _, interest := range req.Interests {
		jobs = append(jobs, images.Job{
			Key:    images.InterestKey(interest, req.Destination),
			Prompt: prompt.InterestImagePrompt(interest, req.Destination),
		})
	}
	results := s.fetcher.FetchAll(ctx, jobs, s.imageWorkers)

	unavailable := 0
	guide.InterestImages = make([]models.InterestImage, 0, len(req.Interests))
	for i, interest := range req.Interests {
		img := models.InterestImage{Interest: interest}
		if r, ok := results[jobs[i].Key]; ok && r.Available() {
			img.Path = r.Path
		} else {
			unavailable++
		}
		guide.InterestImages = append(guide.InterestImages, img)
	}

	guide.PDFPath, err = s.RenderPDF(ctx, req, plan.Markdown, guide.CityImage)
	if err != nil {
		m.GuideRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "pdf_failed")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "PDF rendering failed")
		return nil, err
	}

	m.GuideRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	l.Info("Guide generated",
		zap.String("model", plan.Model),
		zap.Bool("city_image", guide.CityImage != ""),
		zap.Int("interest_images_unavailable", unavailable),
		zap.String("pdf", guide.PDFPath))
	span.SetStatus(codes.Ok, "Guide generated")
	return guide, nil
}

// RenderPDF writes the PDF for an already generated itinerary.
func (s *ServiceImpl) RenderPDF(ctx context.Context, req models.TripRequest, markdown, cityImage string) (string, error) {
	if markdown == "" {
		return "", models.ErrNoPlan
	}
	path, err := s.renderer.Render(ctx, pdf.Document{
		Destination: req.Destination,
		Days:        req.NumDays,
		Markdown:    markdown,
		ImagePath:   cityImage,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render pdf: %w", err)
	}
	return path, nil
}
