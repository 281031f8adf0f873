package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pugmark/footprint/internal/footprint"
	"github.com/pugmark/footprint/internal/images"
	"github.com/pugmark/footprint/internal/ingest"
)

// DefaultConcurrency is used when Options.Concurrency is not positive.
const DefaultConcurrency = 4

// Options configures a run.
type Options struct {
	Concurrency int
	Fetcher     *images.Fetcher
}

// SampleResult is the outcome of classifying one sample.
type SampleResult struct {
	ID        string               `json:"id" yaml:"id"`
	Image     string               `json:"image" yaml:"image"`
	Expected  footprint.Label      `json:"expected" yaml:"expected"`
	Predicted footprint.Label      `json:"predicted,omitempty" yaml:"predicted,omitempty"`
	Score     float64              `json:"score" yaml:"score"`
	Age       footprint.AgeBracket `json:"age,omitempty" yaml:"age,omitempty"`
	WeightKg  int                  `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	Gender    footprint.Gender     `json:"gender,omitempty" yaml:"gender,omitempty"`
	Correct   bool                 `json:"correct" yaml:"correct"`
	Error     string               `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration        `json:"duration" yaml:"duration"`
}

// Run classifies samples with at most opts.Concurrency in flight. Results
// are returned in dataset order. Samples not started before ctx is done are
// reported as failed.
func Run(ctx context.Context, samples []Sample, opts Options) []SampleResult {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = images.NewFetcher()
	}

	slog.Info("Processing samples", "samples", len(samples), "concurrency", concurrency)

	results := make([]SampleResult, len(samples))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, sample := range samples {
		if ctx.Err() != nil {
			results[i] = failed(sample, ctx.Err())
			continue
		}

		g.Go(func() error {
			slog.Debug("Processing sample", "id", sample.ID, "progress", fmt.Sprintf("%d/%d", i+1, len(samples)))
			results[i] = processSample(ctx, fetcher, sample)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func processSample(ctx context.Context, fetcher *images.Fetcher, sample Sample) SampleResult {
	if err := ctx.Err(); err != nil {
		return failed(sample, err)
	}

	start := time.Now()
	result := SampleResult{
		ID:       sample.ID,
		Image:    sample.Image,
		Expected: footprint.Label(sample.Label),
	}

	expected, err := footprint.ParseLabel(sample.Label)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Expected = expected

	data, err := fetcher.Load(ctx, sample.Image)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load image: %v", err)
		result.Duration = time.Since(start)
		return result
	}

	img, err := ingest.DecodeBytes(data)
	if err != nil {
		result.Error = fmt.Sprintf("failed to decode image: %v", err)
		result.Duration = time.Since(start)
		return result
	}

	res := footprint.Classify(img)
	result.Predicted = res.Label()
	result.Score = res.Score()
	result.Correct = result.Predicted == expected
	if cat, ok := res.(footprint.BigCat); ok {
		result.Age = cat.Age
		result.WeightKg = cat.WeightKg
		result.Gender = cat.Gender
	}
	result.Duration = time.Since(start)

	if !result.Correct {
		slog.Debug("Misclassified sample", "id", sample.ID, "expected", expected, "predicted", result.Predicted, "score", result.Score)
	}
	return result
}

func failed(sample Sample, err error) SampleResult {
	return SampleResult{
		ID:       sample.ID,
		Image:    sample.Image,
		Expected: footprint.Label(sample.Label),
		Error:    err.Error(),
	}
}
