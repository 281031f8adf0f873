package evaluation

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ResultsFile is the name of the report written into a results directory.
const ResultsFile = "results.yaml"

// Config records how a run was produced.
type Config struct {
	DatasetPath string `json:"dataset_path" yaml:"datasetpath"`
	SampleSize  int    `json:"sample_size" yaml:"samplesize"`
	Concurrency int    `json:"concurrency" yaml:"concurrency"`
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
}

// Report is the complete evaluation output.
type Report struct {
	Config  Config         `json:"config" yaml:"config"`
	Summary *Summary       `json:"summary" yaml:"summary"`
	Results []SampleResult `json:"results" yaml:"results"`
}

// SaveResults writes report to outputDir/results.yaml.
func SaveResults(outputDir string, report *Report) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filepath.Join(outputDir, ResultsFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// LoadResults reads resultsDir/results.yaml.
func LoadResults(resultsDir string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(resultsDir, ResultsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return &report, nil
}
