package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pugmark/footprint/internal/footprint"
	"github.com/pugmark/footprint/internal/images"
	"github.com/pugmark/footprint/internal/ingest"
	"github.com/pugmark/footprint/internal/models"
)

// classification is one line of classify output.
type classification struct {
	Source   string  `json:"source" yaml:"source"`
	Label    string  `json:"label,omitempty" yaml:"label,omitempty"`
	Score    float64 `json:"score" yaml:"score"`
	Age      string  `json:"age,omitempty" yaml:"age,omitempty"`
	WeightKg *int    `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	Gender   string  `json:"gender,omitempty" yaml:"gender,omitempty"`
	Error    string  `json:"error,omitempty" yaml:"error,omitempty"`
}

func newClassification(source string, res footprint.Result) classification {
	age, weight, gender := models.Attributes(res)
	return classification{
		Source:   source,
		Label:    res.Label().String(),
		Score:    res.Score(),
		Age:      age,
		WeightKg: weight,
		Gender:   gender,
	}
}

func newClassifyCmd() *cobra.Command {
	var format string
	var score float64

	cmd := &cobra.Command{
		Use:   "classify [FILE|URL]...",
		Short: "Classify footprint images from the terminal",
		Long: `Classify one or more footprint images (local files or http(s) URLs).

With --score the classifier runs on a precomputed mean intensity instead
of an image, which is handy for exploring the decision bands.`,
		Example: `  footprint classify print.jpg other.png
  footprint classify --format json https://example.com/print.jpg
  footprint classify --score 0.7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out []classification

			if cmd.Flags().Changed("score") {
				if score < 0 || score > 1 {
					return fmt.Errorf("score must be within [0, 1], got %v", score)
				}
				out = append(out, newClassification("score", footprint.ClassifyScore(score)))
			}
			if len(args) == 0 && len(out) == 0 {
				return fmt.Errorf("at least one image or --score is required")
			}

			fetcher := images.NewFetcher()
			failed := 0
			for _, src := range args {
				c, err := classifySource(cmd, fetcher, src)
				if err != nil {
					slog.Error("Failed to classify image", "source", src, "err", err)
					failed++
					c = classification{Source: src, Error: err.Error()}
				}
				out = append(out, c)
			}

			if err := writeClassifications(cmd.OutOrStdout(), format, out); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d images could not be classified", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().Float64Var(&score, "score", 0, "Classify a mean intensity in [0, 1] instead of an image")

	return cmd
}

func classifySource(cmd *cobra.Command, fetcher *images.Fetcher, src string) (classification, error) {
	data, err := fetcher.Load(cmd.Context(), src)
	if err != nil {
		return classification{}, err
	}
	img, err := ingest.DecodeBytes(data)
	if err != nil {
		return classification{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return newClassification(src, footprint.Classify(img)), nil
}

func writeClassifications(w io.Writer, format string, out []classification) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	case "yaml":
		return yaml.NewEncoder(w).Encode(out)
	case "text":
		for _, c := range out {
			if c.Error != "" {
				fmt.Fprintf(w, "%s: error: %s\n", c.Source, c.Error)
				continue
			}
			fmt.Fprintf(w, "%s: %s (score %.4f)", c.Source, c.Label, c.Score)
			if c.WeightKg != nil {
				fmt.Fprintf(w, " age=%s weight=%dkg gender=%s", c.Age, *c.WeightKg, c.Gender)
			}
			fmt.Fprintln(w)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
