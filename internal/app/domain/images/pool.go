package images

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Job is one image to resolve.
type Job struct {
	Key    string
	Prompt string
}

// FetchAll resolves jobs with at most workers fetches in flight. With a
// single worker the jobs run strictly in order. Results are keyed by Job.Key.
func (f *Fetcher) FetchAll(ctx context.Context, jobs []Job, workers int) map[string]Result {
	ctx, span := otel.Tracer("ImageFetcher").Start(ctx, "FetchAll", trace.WithAttributes(
		attribute.Int("jobs.count", len(jobs)),
	))
	defer span.End()

	results := make([]Result, len(jobs))
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	span.SetAttributes(attribute.Int("workers.count", workers))

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = f.Fetch(ctx, job.Prompt, job.Key)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]Result, len(jobs))
	for _, r := range results {
		out[r.Key] = r
	}
	return out
}
