package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	GuideRequestsTotal     metric.Int64Counter
	LLMAttemptsTotal       metric.Int64Counter
	ImageFetchesTotal      metric.Int64Counter
	PDFRenderDuration      metric.Float64Histogram
	TemplateRenderDuration metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the instruments once, from the global MeterProvider.
// Call it after the provider is installed so the instruments are exported.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("travel-guide")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.GuideRequestsTotal, err = meter.Int64Counter(
			"guide_requests_total",
			metric.WithDescription("Total number of guide generation runs by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create guide_requests_total: %v", err)
		}

		m.LLMAttemptsTotal, err = meter.Int64Counter(
			"llm_attempts_total",
			metric.WithDescription("Text model attempts by model and outcome"),
			metric.WithUnit("{attempt}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_attempts_total: %v", err)
		}

		m.ImageFetchesTotal, err = meter.Int64Counter(
			"image_fetches_total",
			metric.WithDescription("Image fetches by result status"),
			metric.WithUnit("{image}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create image_fetches_total: %v", err)
		}

		m.PDFRenderDuration, err = meter.Float64Histogram(
			"pdf_render_duration_seconds",
			metric.WithDescription("Duration of PDF rendering in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pdf_render_duration_seconds: %v", err)
		}

		m.TemplateRenderDuration, err = meter.Float64Histogram(
			"template_render_duration_seconds",
			metric.WithDescription("Duration of template rendering in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create template_render_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the AppMetrics instance, initializing it against the current
// global MeterProvider on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
