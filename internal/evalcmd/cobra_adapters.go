package evalcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pugmark/footprint/internal/evaluation"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var outputDir string
	var sampleSize int
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify a labeled dataset and record accuracy",
		Long: `Run the footprint classifier over every sample of a labeled dataset.

Datasets are .jsonl, .json ({"samples": [...]}) or .parquet files whose
rows carry an id, an image (local path or http(s) URL) and a label
(lion, tiger or other). Results and summary metrics are written to
results.yaml in the output directory.`,
		Example: `  # Evaluate every sample
  footprint eval run --dataset ./prints.jsonl --output ./results

  # Evaluate the first 50 samples with 8 workers
  footprint eval run --dataset ./prints.parquet --sample 50 --concurrency 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFile(datasetPath); err != nil {
				return err
			}
			return executeRun(cmd.Context(), cmd.OutOrStdout(), datasetPath, outputDir, sampleSize, concurrency)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to dataset file (.jsonl, .json or .parquet)")
	cmd.Flags().StringVar(&outputDir, "output", "./results", "Directory for results.yaml")
	cmd.Flags().IntVar(&sampleSize, "sample", 0, "Number of samples to evaluate (0 for all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", evaluation.DefaultConcurrency, "Number of samples classified in parallel")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var resultsDir string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a report for a previous evaluation run",
		Example: `  footprint eval report --results ./results
  footprint eval report --results ./results --format csv > results.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(cmd.OutOrStdout(), resultsDir, format)
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "./results", "Directory containing results.yaml")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv, yaml)")

	return cmd
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var datasetPath string
	var limit int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect dataset samples",
		Long: `Inspect samples from a .jsonl, .json or .parquet dataset file.

Each sample is listed with its resolved image location, so missing files
show up before a run.`,
		Example: `  # Inspect first 5 samples interactively
  footprint eval inspect --dataset ./prints.parquet --limit 5 --interactive

  # Inspect all samples
  footprint eval inspect --dataset ./prints.jsonl --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFile(datasetPath); err != nil {
				return err
			}
			return executeInspect(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), datasetPath, limit, interactive)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to dataset file (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of samples to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each sample (press Enter to continue)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

// NewDownloadImagesCmd creates the download-images command
func NewDownloadImagesCmd() *cobra.Command {
	var datasetPath string
	var outputDir string
	var sampleSize int

	cmd := &cobra.Command{
		Use:   "download-images",
		Short: "Download remote dataset images for offline evaluation",
		Long: `Download every http(s) image referenced by a dataset into a local
directory and write a dataset.jsonl next to them that points at the
local copies. Local images are kept as they are.`,
		Example: `  footprint eval download-images --dataset ./remote.jsonl --output ./prints
  footprint eval run --dataset ./prints/dataset.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFile(datasetPath); err != nil {
				return err
			}
			return executeDownloadImages(cmd.Context(), cmd.OutOrStdout(), datasetPath, outputDir, sampleSize)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to dataset file (required)")
	cmd.Flags().StringVar(&outputDir, "output", "./footprint_images", "Output directory for images and dataset.jsonl")
	cmd.Flags().IntVar(&sampleSize, "sample", 0, "Number of samples to process (0 for all)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func requireFile(path string) error {
	if path == "" {
		return fmt.Errorf("--dataset is required")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("dataset file not found: %s", path)
	}
	return nil
}
