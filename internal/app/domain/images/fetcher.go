package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/models"
	"github.com/FACorreiaa/go-travelguide/internal/app/observability/metrics"
)

// maxImageBytes bounds a single download.
const maxImageBytes = 20 << 20

// Status tells how a Fetch call was resolved.
type Status string

const (
	StatusCached      Status = "cached"
	StatusFetched     Status = "fetched"
	StatusUnavailable Status = "unavailable"
)

// Result of one Fetch. Path is set for cached and fetched images; Err carries
// the reason when Status is StatusUnavailable.
type Result struct {
	Key    string
	Status Status
	Path   string
	Err    error
}

// Available reports whether the result points to an image on disk.
func (r Result) Available() bool {
	return r.Status != StatusUnavailable && r.Path != ""
}

// GeneratedImage is the remote generator's answer: either a URL to download
// or the inline image bytes.
type GeneratedImage struct {
	URL      string
	Data     []byte
	MIMEType string
}

// Generator issues one remote image-generation request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*GeneratedImage, error)
}

// HTTPDoer is the subset of *http.Client used for downloads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher resolves image prompts to files in a cache directory.
type Fetcher struct {
	dir        string
	generator  Generator
	httpClient HTTPDoer
	logger     *zap.Logger
}

func NewFetcher(dir string, generator Generator, httpClient HTTPDoer, logger *zap.Logger) (*Fetcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	return &Fetcher{
		dir:        dir,
		generator:  generator,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Dir is the cache directory.
func (f *Fetcher) Dir() string {
	return f.dir
}

// Fetch returns the cached file for filename, or generates, downloads and
// stores it. Failures never escape as errors: they come back as
// StatusUnavailable and leave no file behind.
func (f *Fetcher) Fetch(ctx context.Context, prompt, filename string) Result {
	ctx, span := otel.Tracer("ImageFetcher").Start(ctx, "Fetch", trace.WithAttributes(
		attribute.String("image.key", filename),
	))
	defer span.End()

	l := f.logger.With(zap.String("method", "Fetch"), zap.String("key", filename))
	res := f.fetch(ctx, prompt, filename)

	metrics.Get().ImageFetchesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(res.Status)),
	))
	span.SetAttributes(attribute.String("image.status", string(res.Status)))

	switch res.Status {
	case StatusCached:
		l.Debug("Image cache hit", zap.String("path", res.Path))
	case StatusFetched:
		l.Info("Image generated", zap.String("path", res.Path))
	default:
		l.Warn("Image unavailable", zap.Error(res.Err))
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "Image unavailable")
	}
	return res
}

func (f *Fetcher) fetch(ctx context.Context, prompt, filename string) Result {
	res := Result{Key: filename}

	name := filepath.Base(filename)
	if name != filename || name == "." || name == string(filepath.Separator) {
		res.Status = StatusUnavailable
		res.Err = fmt.Errorf("invalid image file name %q", filename)
		return res
	}
	path := filepath.Join(f.dir, name)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		res.Status = StatusCached
		res.Path = path
		return res
	}

	data, err := f.generate(ctx, prompt)
	if err != nil {
		res.Status = StatusUnavailable
		res.Err = err
		return res
	}

	if err := writeFileAtomic(path, data); err != nil {
		res.Status = StatusUnavailable
		res.Err = err
		return res
	}

	res.Status = StatusFetched
	res.Path = path
	return res
}

func (f *Fetcher) generate(ctx context.Context, prompt string) ([]byte, error) {
	img, err := f.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if img == nil {
		return nil, models.ErrNoImage
	}
	if img.URL == "" {
		if len(img.Data) == 0 {
			return nil, models.ErrNoImage
		}
		return img.Data, nil
	}
	return f.download(ctx, img.URL)
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download failed: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	if len(data) == 0 {
		return nil, models.ErrNoImage
	}
	return data, nil
}

// writeFileAtomic writes through a temp file in the same directory so readers
// and concurrent writers never observe a partial image.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write image: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to store image: %w", err)
	}
	return nil
}
