package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/pugmark/footprint/internal/evaluation"
)

func executeReport(w io.Writer, resultsDir, format string) error {
	report, err := evaluation.LoadResults(resultsDir)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	switch format {
	case "text":
		return printTextReport(w, report)
	case "json":
		return printJSONReport(w, report)
	case "csv":
		return printCSVReport(w, report)
	case "yaml":
		return yaml.NewEncoder(w).Encode(report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(w io.Writer, report *evaluation.Report) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Footprint Classification Report")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Dataset:   %s\n", report.Config.DatasetPath)
	fmt.Fprintf(w, "Run at:    %s\n", report.Config.Timestamp)
	fmt.Fprintln(w)

	if report.Summary != nil {
		report.Summary.Print(w)
	}

	fmt.Fprintln(w, "\nDetailed Results:")
	fmt.Fprintln(w, "========================================")

	for i, r := range report.Results {
		fmt.Fprintf(w, "\n[%d] Sample ID: %s\n", i+1, r.ID)
		fmt.Fprintf(w, "  Image:     %s\n", truncate(r.Image, 80))

		if r.Error != "" {
			fmt.Fprintf(w, "  ❌ Error: %s\n", r.Error)
			continue
		}

		mark := "✅"
		if !r.Correct {
			mark = "❌"
		}
		fmt.Fprintf(w, "  %s Expected %s, predicted %s (score %.4f)\n", mark, r.Expected, r.Predicted, r.Score)
		if r.Age != "" {
			fmt.Fprintf(w, "  Age: %s  Weight: %d kg  Gender: %s\n", r.Age, r.WeightKg, r.Gender)
		}
	}

	return nil
}

func printJSONReport(w io.Writer, report *evaluation.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func printCSVReport(w io.Writer, report *evaluation.Report) error {
	writer := csv.NewWriter(w)

	header := []string{"ID", "Image", "Expected", "Predicted", "Score", "Correct", "Age", "Weight (kg)", "Gender", "Duration (ms)", "Error"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range report.Results {
		weight := ""
		if r.WeightKg > 0 {
			weight = strconv.Itoa(r.WeightKg)
		}
		row := []string{
			r.ID,
			r.Image,
			r.Expected.String(),
			r.Predicted.String(),
			fmt.Sprintf("%.4f", r.Score),
			strconv.FormatBool(r.Correct),
			r.Age.String(),
			weight,
			r.Gender.String(),
			fmt.Sprintf("%.3f", float64(r.Duration.Microseconds())/1000),
			r.Error,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
