package evalcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pugmark/footprint/internal/evaluation"
)

func executeRun(ctx context.Context, w io.Writer, datasetPath, outputDir string, sampleSize, concurrency int) error {
	slog.Info("Starting evaluation run", "dataset", datasetPath, "sample", sampleSize, "concurrency", concurrency)

	samples, err := evaluation.NewLoader(datasetPath).LoadSample(sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "samples", len(samples))

	results := evaluation.Run(ctx, samples, evaluation.Options{Concurrency: concurrency})

	slog.Info("Calculating summary statistics...")
	report := &evaluation.Report{
		Config: evaluation.Config{
			DatasetPath: datasetPath,
			SampleSize:  len(samples),
			Concurrency: concurrency,
			Timestamp:   time.Now().Format("2006-01-02_15-04-05"),
		},
		Summary: evaluation.Summarize(results),
		Results: results,
	}

	slog.Info("Saving results", "output", outputDir)
	if err := evaluation.SaveResults(outputDir, report); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Fprintln(w)
	report.Summary.Print(w)

	fmt.Fprintf(w, "\nResults saved to: %s\n", outputDir)
	fmt.Fprintf(w, "\nGenerate detailed report with:\n")
	fmt.Fprintf(w, "  footprint eval report --results %s\n", outputDir)

	return ctx.Err()
}
