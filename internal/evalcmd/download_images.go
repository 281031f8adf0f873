package evalcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pugmark/footprint/internal/evaluation"
	"github.com/pugmark/footprint/internal/images"
)

// DatasetFile is the dataset written next to downloaded images.
const DatasetFile = "dataset.jsonl"

func executeDownloadImages(ctx context.Context, w io.Writer, datasetPath, outputDir string, sampleSize int) error {
	slog.Info("Starting image download", "dataset", datasetPath, "output", outputDir, "sample", sampleSize)

	samples, err := evaluation.NewLoader(datasetPath).LoadSample(sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	fetcher := images.NewFetcher()

	successCount := 0
	skipCount := 0
	errorCount := 0
	kept := make([]evaluation.Sample, 0, len(samples))

	for i, s := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !images.IsRemote(s.Image) {
			abs, err := filepath.Abs(s.Image)
			if err != nil {
				return fmt.Errorf("failed to resolve image path: %w", err)
			}
			s.Image = abs
			kept = append(kept, s)
			skipCount++
			continue
		}

		rel := filepath.Join("images", imageFilename(s))
		target := filepath.Join(absOutput, rel)

		if _, err := os.Stat(target); err == nil {
			slog.Info("Image already exists, skipping", "id", s.ID, "path", target)
			s.Image = rel
			kept = append(kept, s)
			skipCount++
			continue
		}

		slog.Info("Downloading image", "index", i+1, "total", len(samples), "id", s.ID, "url", s.Image)
		if err := fetcher.Download(ctx, s.Image, target); err != nil {
			slog.Warn("Failed to download image", "id", s.ID, "url", s.Image, "error", err)
			errorCount++
			continue
		}

		s.Image = rel
		kept = append(kept, s)
		successCount++
	}

	datasetOut := filepath.Join(outputDir, DatasetFile)
	if err := evaluation.SaveDataset(kept, datasetOut); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nImage download complete!\n")
	fmt.Fprintf(w, "  Downloaded: %d\n", successCount)
	fmt.Fprintf(w, "  Skipped (local or already present): %d\n", skipCount)
	fmt.Fprintf(w, "  Errors: %d\n", errorCount)
	fmt.Fprintf(w, "  Dataset: %s\n", datasetOut)
	fmt.Fprintf(w, "\nNext steps:\n")
	fmt.Fprintf(w, "  footprint eval run --dataset %s\n", datasetOut)

	return nil
}

// imageFilename derives a file name for a sample from its ID and the URL's
// extension. IDs changed by sanitizing get a suffix derived from the raw ID,
// so "a/b" and "a_b" map to different files.
func imageFilename(s evaluation.Sample) string {
	ext := ".img"
	if u, err := url.Parse(s.Image); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" {
			ext = e
		}
	}

	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s.ID)
	if name != s.ID {
		name += "-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(s.ID)).String()[:8]
	}
	return name + ext
}
